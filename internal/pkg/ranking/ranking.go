// Package ranking derives leaderboards and the normalized comparison
// vectors of the operator radar.
//
// Leaderboards come in three kinds: metric (a numeric field), skills
// (summed ordinal skill ratings) and popularity (group cardinality). All
// three share the same ordering rule: numeric value, best first per the
// configured direction (descending unless stated otherwise), ties broken
// by the locale-aware label comparator, truncated to the configured limit.
package ranking

import (
	"log/slog"
	"sort"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// UnknownOperator labels records whose identity chain resolves nothing.
const UnknownOperator = "Unknown Operator"

// Engine derives [model.Ranking] and [model.Radar] results from a dataset.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	collator *model.LabelComparator
	l        *slog.Logger
}

// New [Engine] for the given configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:      cfg,
		collator: model.NewLabelComparator(),
		l:        slog.Default().With(slog.String("module", "ranking")),
	}
}

// Build runs one configured leaderboard over the dataset.
//
// It returns nil when no record qualifies for the board.
func (e *Engine) Build(dataset *model.Dataset, spec config.Ranking) *model.Ranking {
	var entries []model.RankingEntry

	switch spec.Kind {
	case config.RankingMetric:
		entries = e.scoreByField(dataset, spec)
	case config.RankingSkills:
		entries = e.scoreBySkills(dataset, spec)
	case config.RankingPopularity:
		entries = e.scoreByCardinality(dataset, spec)
	}

	if len(entries) == 0 {
		e.l.Warn("no qualifying records", slog.String("ranking", spec.ID))

		return nil
	}

	e.rank(entries, spec.Direction)
	if len(entries) > spec.Limit {
		entries = entries[:spec.Limit]
	}

	return &model.Ranking{Title: spec.Title, Entries: entries}
}

// BuildAll runs every configured leaderboard, skipping empty boards.
func (e *Engine) BuildAll(dataset *model.Dataset) []*model.Ranking {
	boards := make([]*model.Ranking, 0, len(e.cfg.Rankings))
	for _, spec := range e.cfg.Rankings {
		board := e.Build(dataset, spec)
		if board == nil {
			continue
		}
		boards = append(boards, board)
	}

	return boards
}

// scoreByField keeps one entry per record whose field parses loosely as a
// number. Records with unparseable values are excluded, not zeroed.
func (e *Engine) scoreByField(dataset *model.Dataset, spec config.Ranking) []model.RankingEntry {
	var entries []model.RankingEntry

	for _, record := range dataset.Records() {
		raw, _ := record.Field(spec.Field.String())
		value, ok := scalar.Loose(raw)
		if !ok {
			continue
		}

		unit := spec.Unit
		if unit == "" {
			unit = e.cfg.FieldUnit(spec.Field)
		}

		entries = append(entries, model.RankingEntry{
			Label:   record.Label(UnknownOperator),
			Value:   value,
			Display: scalar.Display(raw, unit),
		})
	}

	return entries
}

// scoreBySkills sums the best decoded tier of every configured skill
// field. Absent or undecodable ratings score 0, so every record gets an
// entry.
func (e *Engine) scoreBySkills(dataset *model.Dataset, spec config.Ranking) []model.RankingEntry {
	unit := spec.Unit
	if unit == "" {
		unit = "pts"
	}

	entries := make([]model.RankingEntry, 0, dataset.Len())
	for _, record := range dataset.Records() {
		score := 0
		for _, field := range e.cfg.SkillFields {
			raw, _ := record.Field(field.String())
			score += scalar.ParseSkillRating(raw).Best()
		}

		entries = append(entries, model.RankingEntry{
			Label:   record.Label(UnknownOperator),
			Value:   float64(score),
			Display: scalar.Format(float64(score), true) + " " + unit,
		})
	}

	return entries
}

// scoreByCardinality groups records on a categorical field and ranks the
// groups by size. Records with a blank group value are skipped.
func (e *Engine) scoreByCardinality(dataset *model.Dataset, spec config.Ranking) []model.RankingEntry {
	counts := make(map[string]int)
	var order []string

	for _, record := range dataset.Records() {
		label, ok := record.Text(spec.Field.String())
		if !ok {
			continue
		}

		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	entries := make([]model.RankingEntry, 0, len(order))
	for _, label := range order {
		count := counts[label]
		noun := "operators"
		if count == 1 {
			noun = "operator"
		}

		entries = append(entries, model.RankingEntry{
			Label:   label,
			Value:   float64(count),
			Display: scalar.Format(float64(count), true) + " " + noun,
		})
	}

	return entries
}

// rank orders entries by value, best first, then breaks ties on the label.
// Descending puts the highest value on top, ascending the lowest.
func (e *Engine) rank(entries []model.RankingEntry, direction config.RankDirection) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			if direction == config.RankAscending {
				return entries[i].Value < entries[j].Value
			}

			return entries[i].Value > entries[j].Value
		}

		return e.collator.Less(entries[i].Label, entries[j].Label)
	})
}
