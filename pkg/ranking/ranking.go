package ranking

import (
	"math"
	"sort"
)

// Score is the raw classifier output for one label
type Score struct {
	Label string
	Value float64
}

// Prediction is a ranked label with its share of the filtered score mass
type Prediction struct {
	Feature    string  `csv:"feature"`
	Score      float64 `csv:"score"`
	Percentage float64 `csv:"percentage"`
}

// Result is the ranked report for one tested label
type Result struct {
	Label       string
	Features    []string
	Predictions []Prediction
}

// Options control filtering and truncation of a ranking
type Options struct {
	// TopN keeps the first TopN predictions; 0 keeps all
	TopN int

	// PositiveOnly drops scores <= 0 before percentages are computed
	PositiveOnly bool
}

// Rank orders scores by descending absolute value, applies the positive filter and TopN, and
// expresses each kept score as a percentage of the sum of the filtered scores. The sum is taken
// before truncation, so with TopN the kept percentages need not add up to 100, and with mixed signs
// they can leave [-100, 100]. A zero sum yields NaN percentages.
func Rank(scores []Score, opts Options) []Prediction {
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Value) > math.Abs(sorted[j].Value)
	})

	filtered := sorted
	if opts.PositiveOnly {
		filtered = make([]Score, 0, len(sorted))
		for _, s := range sorted {
			if s.Value > 0 {
				filtered = append(filtered, s)
			}
		}
	}

	total := 0.0
	for _, s := range filtered {
		total += s.Value
	}

	limited := filtered
	if opts.TopN > 0 && opts.TopN < len(filtered) {
		limited = filtered[:opts.TopN]
	}

	predictions := make([]Prediction, len(limited))
	for i, s := range limited {
		percentage := math.NaN()
		if total != 0 {
			percentage = s.Value / total * 100
		}
		predictions[i] = Prediction{Feature: s.Label, Score: s.Value, Percentage: percentage}
	}
	return predictions
}
