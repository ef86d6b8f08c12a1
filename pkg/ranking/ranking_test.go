package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var mixedScores = []Score{
	{Label: "c", Value: 1},
	{Label: "a", Value: -5},
	{Label: "b", Value: 3},
}

func features(predictions []Prediction) []string {
	result := make([]string, len(predictions))
	for i, p := range predictions {
		result[i] = p.Feature
	}
	return result
}

func TestRankByAbsoluteValue(t *testing.T) {
	predictions := Rank(mixedScores, Options{})
	require.Equal(t, []string{"a", "b", "c"}, features(predictions))
	// the sum is -1, so every share flips sign
	require.InDelta(t, 500.0, predictions[0].Percentage, 1e-9)
	require.InDelta(t, -300.0, predictions[1].Percentage, 1e-9)
	require.InDelta(t, -100.0, predictions[2].Percentage, 1e-9)
}

func TestRankPositiveOnly(t *testing.T) {
	predictions := Rank(mixedScores, Options{PositiveOnly: true})
	require.Equal(t, []Prediction{
		{Feature: "b", Score: 3, Percentage: 75},
		{Feature: "c", Score: 1, Percentage: 25},
	}, predictions)
}

func TestRankTopN(t *testing.T) {
	predictions := Rank(mixedScores, Options{TopN: 1})
	require.Equal(t, 1, len(predictions))
	require.Equal(t, "a", predictions[0].Feature)
	require.InDelta(t, 500.0, predictions[0].Percentage, 1e-9)

	// the share is taken over the filtered set, before truncation
	predictions = Rank(mixedScores, Options{TopN: 1, PositiveOnly: true})
	require.Equal(t, []Prediction{{Feature: "b", Score: 3, Percentage: 75}}, predictions)

	require.Equal(t, 3, len(Rank(mixedScores, Options{TopN: 10})))
}

func TestRankZeroTotal(t *testing.T) {
	predictions := Rank([]Score{{Label: "x", Value: 2}, {Label: "y", Value: -2}}, Options{})
	require.Equal(t, 2, len(predictions))
	for _, p := range predictions {
		require.True(t, math.IsNaN(p.Percentage))
	}

	require.Empty(t, Rank([]Score{{Label: "x", Value: -1}, {Label: "y", Value: 0}}, Options{PositiveOnly: true}))
	require.Empty(t, Rank(nil, Options{}))
}

func TestRankIsStableAndPure(t *testing.T) {
	scores := []Score{{Label: "first", Value: 1}, {Label: "second", Value: -1}, {Label: "third", Value: 1}}
	require.Equal(t, []string{"first", "second", "third"}, features(Rank(scores, Options{})))
	require.Equal(t, "first", scores[0].Label)

	Rank(mixedScores, Options{})
	require.Equal(t, "c", mixedScores[0].Label)
}
