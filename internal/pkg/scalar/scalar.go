// Package scalar holds the resilient value parsers for roster payloads.
//
// Payload fields are loosely typed: the same column may carry numbers,
// numeric strings with grouping separators, delimited composite ratings, or
// nothing at all. Every parser here degrades to a "no value" result instead
// of failing, so a single malformed cell never poisons an aggregation pass.
package scalar

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Number parses a strict numeric scalar.
//
// Finite numbers are accepted directly. Strings are stripped of thousands
// separators and trimmed; the entire remaining string must then parse as a
// number. Anything else reports ok=false.
func Number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}

		return v, true
	case float32:
		return Number(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		sanitized := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if sanitized == "" {
			return 0, false
		}

		parsed, err := strconv.ParseFloat(sanitized, 64)
		if err != nil || math.IsInf(parsed, 0) {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

var firstNumericRex = regexp.MustCompile(`[+-]?\d[\d,]*(?:\.\d+)?`)

// Loose extracts the first numeric substring of a string value.
//
// Suitable for display-value reconstruction and leaderboard scoring of
// unit-bearing raw values (e.g. "180 cm"); table sorting compares with the
// stricter [Number].
func Loose(raw any) (float64, bool) {
	if n, ok := Number(raw); ok {
		return n, true
	}

	s, ok := raw.(string)
	if !ok {
		return 0, false
	}

	match := firstNumericRex.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	return parsed, true
}

var isoPrefixRex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Date normalizes a raw date value to the canonical "YYYY-MM-DD" form.
//
// ISO-prefixed strings are truncated to 10 characters. Delimited strings
// ("/", "." or "-") are disambiguated positionally: a 4-digit first segment
// is taken as the year, otherwise a 4-digit last segment is moved to the
// front with the first two segments kept in their given order. The
// day/month order of ambiguous inputs like "03/04/2021" is therefore
// preserved as-is; callers must not rely on locale-aware disambiguation.
//
// Numbers are interpreted as millisecond timestamps, [time.Time] values are
// used directly. Unparseable input reports ok=false.
func Date(raw any) (string, bool) {
	token, ok := dateToken(raw)
	if !ok {
		return "", false
	}

	if isoPrefixRex.MatchString(token) {
		return token[:10], true
	}

	normalized := strings.NewReplacer("/", "-", ".", "-").Replace(token)
	parts := make([]string, 0, 3)
	for _, part := range strings.Split(normalized, "-") {
		if part == "" {
			continue
		}
		parts = append(parts, padSegment(part))
	}

	if len(parts) != 3 {
		return "", false
	}

	first, second, third := parts[0], parts[1], parts[2]

	if len(first) == 4 {
		return truncateDate(first + "-" + second + "-" + third), true
	}

	if len(third) == 4 {
		return truncateDate(third + "-" + first + "-" + second), true
	}

	return "", false
}

func dateToken(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", false
		}

		return trimmed, true
	case time.Time:
		return v.UTC().Format(time.RFC3339), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}

		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339), true
	case int:
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339), true
	case int64:
		return time.UnixMilli(v).UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}

func padSegment(part string) string {
	if len(part) < 2 {
		return "0" + part
	}

	return part
}

func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}

	return s
}

// Format renders a number for display: rounded to 2 decimal places,
// trailing ".00" trimmed, with optional thousands grouping.
//
// This is a presentation helper only. Comparison and sorting always use the
// unrounded parsed value.
func Format(v float64, grouping bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}

	const epsilon = 1e-9
	rounded := math.Round(v*100) / 100
	hasFraction := math.Abs(math.Mod(rounded, 1)) > epsilon

	var formatted string
	if hasFraction {
		formatted = strconv.FormatFloat(rounded, 'f', 2, 64)
	} else {
		formatted = strconv.FormatFloat(rounded, 'f', 0, 64)
	}

	if grouping {
		formatted = groupThousands(formatted)
	}

	return formatted
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	integer, fraction, hasFraction := strings.Cut(s, ".")
	if len(integer) <= 3 {
		if hasFraction {
			return sign + integer + "." + fraction
		}

		return sign + integer
	}

	var b strings.Builder
	lead := len(integer) % 3
	if lead > 0 {
		b.WriteString(integer[:lead])
	}
	for i := lead; i < len(integer); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(integer[i : i+3])
	}

	if hasFraction {
		return sign + b.String() + "." + fraction
	}

	return sign + b.String()
}
