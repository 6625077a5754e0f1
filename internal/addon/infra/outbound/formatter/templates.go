package formatter

import (
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

type eventTemplate struct {
	action string
	path   string
}

const changeRequestPath = "/projects/{{event.project}}/change-requests/{{event.data.changeRequestId}}"
const featurePath = "/projects/{{event.project}}/features/{{event.featureName}}"

var eventTemplates = map[string]eventTemplate{
	eventDomain.AddonConfigCreated: {
		action: "*{{user}}* created a new *{{event.data.provider}}* integration configuration",
		path:   "/integrations",
	},
	eventDomain.AddonConfigDeleted: {
		action: "*{{user}}* deleted a *{{event.preData.provider}}* integration configuration",
		path:   "/integrations",
	},
	eventDomain.AddonConfigUpdated: {
		action: "*{{user}}* updated a *{{event.preData.provider}}* integration configuration",
		path:   "/integrations",
	},
	eventDomain.APITokenCreated: {
		action: "*{{user}}* created API token *{{event.data.username}}*",
		path:   "/admin/api",
	},
	eventDomain.APITokenDeleted: {
		action: "*{{user}}* deleted API token *{{event.preData.username}}*",
		path:   "/admin/api",
	},
	eventDomain.ChangeAdded: {
		action: "*{{user}}* added a change to change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeDiscarded: {
		action: "*{{user}}* discarded a change in change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeEdited: {
		action: "*{{user}}* edited a change in change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestApplied: {
		action: "*{{user}}* applied change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestApprovalAdded: {
		action: "*{{user}}* added an approval to change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestApproved: {
		action: "*{{user}}* approved change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestCancelled: {
		action: "*{{user}}* cancelled change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestCreated: {
		action: "*{{user}}* created change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestDiscarded: {
		action: "*{{user}}* discarded change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestRejected: {
		action: "*{{user}}* rejected change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestSentToReview: {
		action: "*{{user}}* sent to review change request {{changeRequest}}",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestScheduled: {
		action: "*{{user}}* scheduled change request {{changeRequest}} to be applied at {{event.data.scheduledDate}} in project *{{event.project}}*",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestScheduledApplicationSuccess: {
		action: "*Successfully* applied the scheduled change request {{changeRequest}} by *{{user}}* in project *{{event.project}}*.",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestScheduledApplicationFailure: {
		action: "*Failed* to apply the scheduled change request {{changeRequest}} by *{{user}}* in project *{{event.project}}*.",
		path:   changeRequestPath,
	},
	eventDomain.ChangeRequestScheduleSuspended: {
		action: "Change request {{changeRequest}} was suspended for the following reason: {{event.data.reason}}",
		path:   changeRequestPath,
	},
	eventDomain.ContextFieldCreated: {
		action: "*{{user}}* created context field *{{event.data.name}}*",
		path:   "/context",
	},
	eventDomain.ContextFieldDeleted: {
		action: "*{{user}}* deleted context field *{{event.preData.name}}*",
		path:   "/context",
	},
	eventDomain.ContextFieldUpdated: {
		action: "*{{user}}* updated context field *{{event.preData.name}}*",
		path:   "/context",
	},
	eventDomain.FeatureArchived: {
		action: "*{{user}}* archived *{{event.featureName}}* in project *{{project}}*",
		path:   "/projects/{{event.project}}/archive",
	},
	eventDomain.FeatureCreated: {
		action: "*{{user}}* created *{{feature}}* in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureDeleted: {
		action: "*{{user}}* deleted *{{event.featureName}}* in project *{{project}}*",
		path:   "/projects/{{event.project}}",
	},
	eventDomain.FeatureEnvironmentDisabled: {
		action: "*{{user}}* disabled *{{feature}}* for the *{{event.environment}}* environment in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureEnvironmentEnabled: {
		action: "*{{user}}* enabled *{{feature}}* for the *{{event.environment}}* environment in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureEnvironmentVariantsUpdate: {
		action: "*{{user}}* updated variants for *{{feature}}* for the *{{event.environment}}* environment in project *{{project}}*",
		path:   featurePath + "/variants",
	},
	eventDomain.FeatureMetadataUpdated: {
		action: "*{{user}}* updated *{{feature}}* metadata in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureCompleted: {
		action: "*{{feature}}* was marked as completed in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeaturePotentiallyStaleOn: {
		action: "*{{feature}}* was marked as potentially stale in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureProjectChange: {
		action: "*{{user}}* moved *{{feature}}* from *{{event.data.oldProject}}* to *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureRevived: {
		action: "*{{user}}* revived *{{feature}}* in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureStaleOff: {
		action: "*{{user}}* removed the stale marking on *{{feature}}* in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureStaleOn: {
		action: "*{{user}}* marked *{{feature}}* as stale in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureStrategyAdd: {
		action: "*{{user}}* added strategy *{{strategyTitle}}* to *{{feature}}* for the *{{event.environment}}* environment in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureStrategyRemove: {
		action: "*{{user}}* removed strategy *{{strategyTitle}}* from *{{feature}}* for the *{{event.environment}}* environment in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureStrategyUpdate: {
		action: "*{{user}}* updated *{{feature}}* in project *{{project}}* {{strategyChangeText}}",
		path:   featurePath,
	},
	eventDomain.FeatureTagged: {
		action: "*{{user}}* tagged *{{feature}}* with *{{event.data.type}}:{{event.data.value}}* in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.FeatureUntagged: {
		action: "*{{user}}* untagged *{{feature}}* with *{{event.preData.type}}:{{event.preData.value}}* in project *{{project}}*",
		path:   featurePath,
	},
	eventDomain.GroupCreated: {
		action: "*{{user}}* created group *{{event.data.name}}*",
		path:   "/admin/groups",
	},
	eventDomain.GroupDeleted: {
		action: "*{{user}}* deleted group *{{event.preData.name}}*",
		path:   "/admin/groups",
	},
	eventDomain.GroupUpdated: {
		action: "*{{user}}* updated group *{{event.preData.name}}*",
		path:   "/admin/groups",
	},
	eventDomain.BannerCreated: {
		action: "*{{user}}* created banner *{{event.data.message}}*",
		path:   "/admin/message-banners",
	},
	eventDomain.BannerDeleted: {
		action: "*{{user}}* deleted banner *{{event.preData.message}}*",
		path:   "/admin/message-banners",
	},
	eventDomain.BannerUpdated: {
		action: "*{{user}}* updated banner *{{event.preData.message}}*",
		path:   "/admin/message-banners",
	},
	eventDomain.ProjectCreated: {
		action: "*{{user}}* created project *{{project}}*",
		path:   "/projects",
	},
	eventDomain.ProjectDeleted: {
		action: "*{{user}}* deleted project *{{event.project}}*",
		path:   "/projects",
	},
	eventDomain.SegmentCreated: {
		action: "*{{user}}* created segment *{{event.data.name}}*",
		path:   "/segments",
	},
	eventDomain.SegmentDeleted: {
		action: "*{{user}}* deleted segment *{{event.preData.name}}*",
		path:   "/segments",
	},
	eventDomain.SegmentUpdated: {
		action: "*{{user}}* updated segment *{{event.preData.name}}*",
		path:   "/segments",
	},
	eventDomain.ServiceAccountCreated: {
		action: "*{{user}}* created service account *{{event.data.name}}*",
		path:   "/admin/service-accounts",
	},
	eventDomain.ServiceAccountDeleted: {
		action: "*{{user}}* deleted service account *{{event.preData.name}}*",
		path:   "/admin/service-accounts",
	},
	eventDomain.ServiceAccountUpdated: {
		action: "*{{user}}* updated service account *{{event.preData.name}}*",
		path:   "/admin/service-accounts",
	},
	eventDomain.UserCreated: {
		action: "*{{user}}* created user *{{event.data.name}}*",
		path:   "/admin/users",
	},
	eventDomain.UserDeleted: {
		action: "*{{user}}* deleted user *{{event.preData.name}}*",
		path:   "/admin/users",
	},
	eventDomain.UserUpdated: {
		action: "*{{user}}* updated user *{{event.preData.name}}*",
		path:   "/admin/users",
	},
}
