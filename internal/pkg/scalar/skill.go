package scalar

import (
	"fmt"
	"strings"
)

// SkillLevel is the ordinal scale used for physical-examination ratings.
type SkillLevel int

// Skill levels in ascending order.
const (
	SkillFlawed SkillLevel = iota
	SkillNormal
	SkillStandard
	SkillExcellent
	SkillOutstanding
	SkillRedacted
)

// String returns the canonical label of a skill level.
func (l SkillLevel) String() string {
	switch l {
	case SkillFlawed:
		return "Flawed"
	case SkillNormal:
		return "Normal"
	case SkillStandard:
		return "Standard"
	case SkillExcellent:
		return "Excellent"
	case SkillOutstanding:
		return "Outstanding"
	case SkillRedacted:
		return "REDACTED"
	default:
		return fmt.Sprintf("SkillLevel(%d)", int(l))
	}
}

var skillLevelByLabel = map[string]SkillLevel{
	"flawed":      SkillFlawed,
	"normal":      SkillNormal,
	"standard":    SkillStandard,
	"excellent":   SkillExcellent,
	"outstanding": SkillOutstanding,
	"redacted":    SkillRedacted,
}

// SkillRating is a decoded skill-field value.
//
// A rating holds one level for regular skills, or two for dual-form skills
// encoded as "Excellent/Outstanding" in the payload. Undecodable segments
// are ignored; a rating with no decoded segment reports Known() == false so
// that callers can tell "no data" apart from the lowest rating.
type SkillRating struct {
	levels []SkillLevel
}

// ParseSkillRating decodes a raw skill-field value.
//
// Composite values are split on "/" and each segment matched
// case-insensitively against the skill scale.
func ParseSkillRating(raw any) SkillRating {
	if raw == nil {
		return SkillRating{}
	}

	var rating SkillRating
	for _, segment := range strings.Split(fmt.Sprint(raw), "/") {
		token := strings.ToLower(strings.TrimSpace(segment))
		if token == "" {
			continue
		}

		level, ok := skillLevelByLabel[token]
		if !ok {
			continue
		}
		rating.levels = append(rating.levels, level)
	}

	return rating
}

// Known reports whether at least one segment decoded to a skill level.
func (r SkillRating) Known() bool {
	return len(r.levels) > 0
}

// Dual reports whether the rating carries two decoded tiers.
func (r SkillRating) Dual() bool {
	return len(r.levels) > 1
}

// Best returns the highest decoded level as an integer score.
//
// An unknown rating scores 0, the same as Flawed: scoring callers that need
// to distinguish the two must check [SkillRating.Known] first.
func (r SkillRating) Best() int {
	best := 0
	for _, level := range r.levels {
		if int(level) > best {
			best = int(level)
		}
	}

	return best
}
