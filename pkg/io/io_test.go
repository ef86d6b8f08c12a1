package io

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"featurenet/pkg/dataset"
	"featurenet/pkg/model"
)

func TestReadCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/listed.csv", []byte("Disease,Symptom_1\nflu,fever,cough\ncold,\"sneezing, runny\"\n"), 0644))

	rows, err := ReadCSV(fs, "/data/listed.csv")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Disease", "Symptom_1"},
		{"flu", "fever", "cough"},
		{"cold", "sneezing, runny"},
	}, rows)

	_, err = ReadCSV(fs, "/data/missing.csv")
	require.Error(t, err)
}

func TestReadCSVParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.csv", []byte("a,b\n\"x\"y,\"z\n"), 0644))

	_, err := ReadCSV(fs, "bad.csv")
	var parseErr *dataset.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "bad.csv", parseErr.Path)
}

func trainedArtifacts(t *testing.T) (*dataset.View, *model.Vocabulary, *model.Network) {
	view := dataset.NewView()
	view.Add("flu", "fever", "cough")
	view.Add("cold", "sneezing")
	vocabulary := model.BuildVocabulary(view)
	network, err := model.NewNetwork(vocabulary.FeatureCount(), vocabulary.LabelCount(), []int{4}, "tanh")
	require.NoError(t, err)
	network.Init(7)
	return view, vocabulary, network
}

func TestStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/trained")
	view, vocabulary, network := trainedArtifacts(t)

	records := []*dataset.Record{{
		Target:     dataset.StringValue("flu"),
		Attributes: dataset.Attributes{{Name: "Symptom_1", Value: dataset.StringValue("fever")}},
	}}
	require.NoError(t, store.SaveView(view))
	require.NoError(t, store.SaveModel(network))
	require.NoError(t, store.SaveRecords(records))

	exists, err := afero.Exists(fs, "/trained/vocabulary.json")
	require.NoError(t, err)
	require.True(t, exists)

	loadedView, err := store.LoadView()
	require.NoError(t, err)
	require.Equal(t, view.Labels, loadedView.Labels)
	require.Equal(t, vocabulary, model.BuildVocabulary(loadedView))

	loadedNetwork, err := store.LoadModel(vocabulary)
	require.NoError(t, err)
	input := []float64{1, 0, 1}
	require.InDeltaSlice(t, network.Predict(input), loadedNetwork.Predict(input), 1e-12)

	loadedRecords, err := store.LoadRecords()
	require.NoError(t, err)
	require.Equal(t, records, loadedRecords)
}

func TestStoreModelMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "trained")
	_, _, network := trainedArtifacts(t)
	require.NoError(t, store.SaveModel(network))

	other := dataset.NewView()
	other.Add("flu", "fever", "cough", "ache")
	other.Add("cold", "sneezing")

	_, err := store.LoadModel(model.BuildVocabulary(other))
	var cfgErr *dataset.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestStoreMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "trained")
	require.NoError(t, store.WriteFile(VocabularyFile, []byte(`{"flu": [`)))

	_, err := store.LoadView()
	var parseErr *dataset.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, store.Path(VocabularyFile), parseErr.Path)

	_, err = store.LoadRecords()
	require.Error(t, err)
}
