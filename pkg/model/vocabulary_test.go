package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"featurenet/pkg/dataset"
)

func diseaseView() *dataset.View {
	view := dataset.NewView()
	view.Add("Flu", "Fever", "cough", "ache")
	view.Add("cold", "sneezing", "cough")
	view.Add("Migraine", "ache", "nausea")
	return view
}

func TestBuildVocabulary(t *testing.T) {
	vocabulary := BuildVocabulary(diseaseView())
	require.Equal(t, []string{"flu", "cold", "migraine"}, vocabulary.Labels.IndexToName)
	require.Equal(t, []string{"fever", "cough", "ache", "sneezing", "nausea"}, vocabulary.Features.IndexToName)
	require.Equal(t, 5, vocabulary.FeatureCount())
	require.Equal(t, 3, vocabulary.LabelCount())

	index, ok := vocabulary.Features.ContainsName("sneezing")
	require.True(t, ok)
	require.Equal(t, 3, index)
	_, ok = vocabulary.Labels.ContainsName("measles")
	require.False(t, ok)
}

func TestBuildVocabularyIsDeterministic(t *testing.T) {
	first := BuildVocabulary(diseaseView())
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, BuildVocabulary(diseaseView())); diff != "" {
			t.Fatalf("vocabulary changed between builds:\n%s", diff)
		}
	}
}

func TestNameMap(t *testing.T) {
	m := NewNameMap()
	require.Equal(t, 0, m.ValueFor("a"))
	require.Equal(t, 1, m.ValueFor("b"))
	require.Equal(t, 0, m.ValueFor("a"))
	require.Equal(t, 2, m.Size())
}
