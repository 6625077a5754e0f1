package domain

// Tipos de evento de dominio. Los valores son los que viajan en el JSON.
const (
	FeatureCreated                   = "feature-created"
	FeatureDeleted                   = "feature-deleted"
	FeatureUpdated                   = "feature-updated"
	FeatureMetadataUpdated           = "feature-metadata-updated"
	FeatureVariantsUpdated           = "feature-variants-updated"
	FeatureEnvironmentVariantsUpdate = "feature-environment-variants-updated"
	FeatureProjectChange             = "feature-project-change"
	FeatureArchived                  = "feature-archived"
	FeatureRevived                   = "feature-revived"
	FeatureImport                    = "feature-import"
	FeatureTagged                    = "feature-tagged"
	FeatureTagImport                 = "feature-tag-import"
	FeatureStrategyUpdate            = "feature-strategy-update"
	FeatureStrategyAdd               = "feature-strategy-add"
	FeatureStrategyRemove            = "feature-strategy-remove"
	FeatureStaleOn                   = "feature-stale-on"
	FeatureStaleOff                  = "feature-stale-off"
	FeaturePotentiallyStaleOn        = "feature-potentially-stale-on"
	FeatureCompleted                 = "feature-completed"
	FeatureUntagged                  = "feature-untagged"
	FeatureEnvironmentEnabled        = "feature-environment-enabled"
	FeatureEnvironmentDisabled       = "feature-environment-disabled"

	ContextFieldCreated = "context-field-created"
	ContextFieldUpdated = "context-field-updated"
	ContextFieldDeleted = "context-field-deleted"

	ProjectCreated = "project-created"
	ProjectUpdated = "project-updated"
	ProjectDeleted = "project-deleted"

	SegmentCreated = "segment-created"
	SegmentUpdated = "segment-updated"
	SegmentDeleted = "segment-deleted"

	UserCreated = "user-created"
	UserUpdated = "user-updated"
	UserDeleted = "user-deleted"

	GroupCreated = "group-created"
	GroupUpdated = "group-updated"
	GroupDeleted = "group-deleted"

	APITokenCreated = "api-token-created"
	APITokenDeleted = "api-token-deleted"

	AddonConfigCreated = "addon-config-created"
	AddonConfigUpdated = "addon-config-updated"
	AddonConfigDeleted = "addon-config-deleted"

	BannerCreated = "banner-created"
	BannerUpdated = "banner-updated"
	BannerDeleted = "banner-deleted"

	ServiceAccountCreated = "service-account-created"
	ServiceAccountUpdated = "service-account-updated"
	ServiceAccountDeleted = "service-account-deleted"

	ChangeAdded                              = "change-added"
	ChangeDiscarded                          = "change-discarded"
	ChangeEdited                             = "change-edited"
	ChangeRequestCreated                     = "change-request-created"
	ChangeRequestDiscarded                   = "change-request-discarded"
	ChangeRequestRejected                    = "change-request-rejected"
	ChangeRequestApproved                    = "change-request-approved"
	ChangeRequestApprovalAdded               = "change-request-approval-added"
	ChangeRequestCancelled                   = "change-request-cancelled"
	ChangeRequestSentToReview                = "change-request-sent-to-review"
	ChangeRequestApplied                     = "change-request-applied"
	ChangeRequestScheduled                   = "change-request-scheduled"
	ChangeRequestScheduledApplicationSuccess = "change-request-scheduled-application-success"
	ChangeRequestScheduledApplicationFailure = "change-request-scheduled-application-failure"
	ChangeRequestScheduleSuspended           = "change-request-schedule-suspended"
)

var allTypes = []string{
	FeatureCreated, FeatureDeleted, FeatureUpdated, FeatureMetadataUpdated,
	FeatureVariantsUpdated, FeatureEnvironmentVariantsUpdate, FeatureProjectChange,
	FeatureArchived, FeatureRevived, FeatureImport, FeatureTagged, FeatureTagImport,
	FeatureStrategyUpdate, FeatureStrategyAdd, FeatureStrategyRemove,
	FeatureStaleOn, FeatureStaleOff, FeaturePotentiallyStaleOn, FeatureCompleted,
	FeatureUntagged, FeatureEnvironmentEnabled, FeatureEnvironmentDisabled,
	ContextFieldCreated, ContextFieldUpdated, ContextFieldDeleted,
	ProjectCreated, ProjectUpdated, ProjectDeleted,
	SegmentCreated, SegmentUpdated, SegmentDeleted,
	UserCreated, UserUpdated, UserDeleted,
	GroupCreated, GroupUpdated, GroupDeleted,
	APITokenCreated, APITokenDeleted,
	AddonConfigCreated, AddonConfigUpdated, AddonConfigDeleted,
	BannerCreated, BannerUpdated, BannerDeleted,
	ServiceAccountCreated, ServiceAccountUpdated, ServiceAccountDeleted,
	ChangeAdded, ChangeDiscarded, ChangeEdited,
	ChangeRequestCreated, ChangeRequestDiscarded, ChangeRequestRejected,
	ChangeRequestApproved, ChangeRequestApprovalAdded, ChangeRequestCancelled,
	ChangeRequestSentToReview, ChangeRequestApplied, ChangeRequestScheduled,
	ChangeRequestScheduledApplicationSuccess, ChangeRequestScheduledApplicationFailure,
	ChangeRequestScheduleSuspended,
}

// AllTypes devuelve una copia de todos los tipos conocidos.
func AllTypes() []string {
	return append([]string(nil), allTypes...)
}

// IsKnownType indica si t es uno de los tipos de evento soportados.
func IsKnownType(t string) bool {
	for _, k := range allTypes {
		if k == t {
			return true
		}
	}
	return false
}
