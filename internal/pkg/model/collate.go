package model

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LabelComparator compares display labels the way the dashboard orders
// them: locale-aware, case-insensitive, with embedded numbers compared by
// value so that "Op2" sorts before "Op10".
//
// A comparator keeps an internal buffer and is not safe for concurrent use.
type LabelComparator struct {
	collator *collate.Collator
}

// NewLabelComparator builds the comparator used for legend ordering, sort
// tie-breaks and ranking ties.
func NewLabelComparator() *LabelComparator {
	return &LabelComparator{
		collator: collate.New(language.English, collate.Numeric, collate.IgnoreCase),
	}
}

// Compare returns -1, 0 or 1 depending on whether a sorts before, equal to
// or after b.
func (c *LabelComparator) Compare(a, b string) int {
	return c.collator.CompareString(a, b)
}

// Less reports whether a sorts strictly before b.
func (c *LabelComparator) Less(a, b string) bool {
	return c.collator.CompareString(a, b) < 0
}
