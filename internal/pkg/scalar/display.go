package scalar

import (
	"fmt"
	"strings"
)

// Missing is the sentinel shown for absent values, and the token that
// absent values normalize to in categorical filters.
const Missing = "—"

// Display reconstructs a presentable value from a raw field value.
//
// When the raw value parses loosely as a number, the numeric part is
// re-rendered through [Format] (keeping any surrounding text such as a unit
// embedded in the raw string); a unit label, when given, replaces the
// surrounding text instead. Non-numeric raw values pass through unchanged
// and absent values render as the [Missing] sentinel.
func Display(raw any, unit string) string {
	numeric, ok := Loose(raw)
	if !ok {
		if raw == nil {
			return Missing
		}
		s := fmt.Sprint(raw)
		if strings.TrimSpace(s) == "" {
			return Missing
		}

		return s
	}

	grouping := false
	rawString, isString := raw.(string)
	if isString {
		grouping = strings.Contains(rawString, ",")
	}

	formatted := Format(numeric, grouping)

	if unit != "" {
		return strings.TrimSpace(formatted + " " + unit)
	}

	if isString && strings.TrimSpace(rawString) != "" {
		return replaceFirstNumericSegment(rawString, formatted)
	}

	return formatted
}

func replaceFirstNumericSegment(raw, replacement string) string {
	match := firstNumericRex.FindString(raw)
	if match == "" {
		return replacement
	}

	return strings.Replace(raw, match, replacement, 1)
}
