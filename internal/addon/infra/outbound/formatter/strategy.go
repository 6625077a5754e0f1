package formatter

import (
	"encoding/json"
	"strconv"
	"strings"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

var constraintOperators = map[string]string{
	"IN":              "is one of",
	"NOT_IN":          "is not one of",
	"STR_CONTAINS":    "is a string that contains",
	"STR_STARTS_WITH": "is a string that starts with",
	"STR_ENDS_WITH":   "is a string that ends with",
	"NUM_EQ":          "is a number equal to",
	"NUM_GT":          "is a number greater than",
	"NUM_GTE":         "is a number greater than or equal to",
	"NUM_LT":          "is a number less than",
	"NUM_LTE":         "is a number less than or equal to",
	"DATE_BEFORE":     "is a date before",
	"DATE_AFTER":      "is a date after",
	"SEMVER_EQ":       "is a SemVer equal to",
	"SEMVER_GT":       "is a SemVer greater than",
	"SEMVER_LT":       "is a SemVer less than",
}

// listParameters son los parámetros de estrategia que contienen listas de valores.
var listParameters = map[string]string{
	"userWithId":          "userIds",
	"remoteAddress":       "IPs",
	"applicationHostname": "hostNames",
}

func strategyTitle(e *eventDomain.Event) string {
	return firstTruthy(e.PreData["title"], e.Data["title"], e.PreData["name"], e.Data["name"])
}

// strategyChangeText describe qué cambió en una estrategia; solo aplica a feature-strategy-update.
func (f *MarkdownFormatter) strategyChangeText(e *eventDomain.Event) string {
	if e.Type != eventDomain.FeatureStrategyUpdate || (e.Data == nil && e.PreData == nil) {
		return ""
	}

	current := e.Data
	if current == nil {
		current = e.PreData
	}
	name := stringify(current["name"])

	var changes []string
	switch {
	case name == "flexibleRollout":
		oldParams, newParams := asMap(e.PreData["parameters"]), asMap(e.Data["parameters"])
		changes = append(changes,
			valueChange("stickiness", oldParams["stickiness"], newParams["stickiness"], ""),
			valueChange("rollout", oldParams["rollout"], newParams["rollout"], "%"),
			valueChange("groupId", oldParams["groupId"], newParams["groupId"], ""),
		)
	case listParameters[name] != "":
		changes = append(changes, listChange(listParameters[name], e.PreData, e.Data))
	case name != "default":
		return "by updating strategy *" + strategyTitle(e) + "* in *" + e.Environment + "*"
	}

	changes = append(changes,
		constraintChangeText(asSlice(e.PreData["constraints"]), asSlice(e.Data["constraints"])),
		segmentsChangeText(asSlice(e.PreData["segments"]), asSlice(e.Data["segments"])),
	)

	return "by updating strategy *" + strategyTitle(e) + "* in *" + e.Environment + "*" + joinNonEmpty(changes, ";")
}

func valueChange(label string, oldVal, newVal interface{}, unit string) string {
	o, n := stringify(oldVal), stringify(newVal)
	switch {
	case o == n:
		return ""
	case !truthy(oldVal):
		return " " + label + " to " + n + unit
	default:
		return " " + label + " from " + o + unit + " to " + n + unit
	}
}

func listChange(label string, preData, data map[string]interface{}) string {
	oldVal := asMap(preData["parameters"])[label]
	newVal := asMap(data["parameters"])[label]
	if stringify(oldVal) == stringify(newVal) {
		return ""
	}

	text := func(v interface{}) string {
		s := stringify(v)
		if s == "" {
			return "empty set of " + label
		}
		return "[" + s + "]"
	}
	if preData == nil {
		return " " + label + " to " + text(newVal)
	}
	return " " + label + " from " + text(oldVal) + " to " + text(newVal)
}

func constraintChangeText(oldConstraints, newConstraints []interface{}) string {
	format := func(constraints []interface{}) string {
		if len(constraints) == 0 {
			return "empty set of constraints"
		}
		parts := make([]string, 0, len(constraints))
		for _, raw := range constraints {
			parts = append(parts, formatConstraint(asMap(raw)))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	o, n := format(oldConstraints), format(newConstraints)
	if o == n {
		return ""
	}
	return " constraints from " + o + " to " + n
}

func formatConstraint(c map[string]interface{}) string {
	val, hasValue := c["value"]
	var value string
	if hasValue {
		value = stringify(val)
	} else {
		value = "(" + joinValues(asSlice(c["values"]), ",") + ")"
	}

	op := stringify(c["operator"])
	if desc, ok := constraintOperators[op]; ok {
		op = desc
	}

	inverted := ""
	if truthy(c["inverted"]) {
		inverted = "not "
	}
	return stringify(c["contextName"]) + " " + inverted + op + " " + value
}

func segmentsChangeText(oldSegments, newSegments []interface{}) string {
	format := func(segments []interface{}) string {
		if len(segments) == 0 {
			return "empty set of segments"
		}
		return "(" + joinValues(segments, ",") + ")"
	}

	o, n := format(oldSegments), format(newSegments)
	if o == n {
		return ""
	}
	return " segments from " + o + " to " + n
}

// ---------- helpers sobre JSON genérico ----------

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		return joinValues(val, ",")
	default:
		return ""
	}
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case bool:
		return val
	default:
		return true
	}
}

func firstTruthy(values ...interface{}) string {
	for _, v := range values {
		if truthy(v) {
			return stringify(v)
		}
	}
	return ""
}

func joinValues(values []interface{}, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, stringify(v))
	}
	return strings.Join(parts, sep)
}

func joinNonEmpty(parts []string, sep string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
