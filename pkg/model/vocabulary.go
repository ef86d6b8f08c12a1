package model

import (
	"featurenet/pkg/dataset"
)

// NameMap implements a bidirectional mapping between a name and a dense index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName []string
}

func NewNameMap() NameMap {
	return NameMap{
		NameToIndex: map[string]int{},
	}
}

// ValueFor returns the index of name, assigning the next free index to a new name.
func (f *NameMap) ValueFor(name string) int {
	index, ok := f.NameToIndex[name]
	if !ok {
		index = len(f.IndexToName)
		f.NameToIndex[name] = index
		f.IndexToName = append(f.IndexToName, name)
	}
	return index
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// Vocabulary holds the feature and label indexes shared by training and inference.
// It is not modified after BuildVocabulary returns.
type Vocabulary struct {
	// Features maps a normalized feature token to its input vector index
	Features NameMap

	// Labels maps a normalized label to its output vector index
	Labels NameMap
}

// BuildVocabulary indexes labels and features in the order a single scan of the view meets them.
func BuildVocabulary(view *dataset.View) *Vocabulary {
	v := &Vocabulary{
		Features: NewNameMap(),
		Labels:   NewNameMap(),
	}
	for _, label := range view.Labels {
		v.Labels.ValueFor(dataset.NormalizeToken(label))
		for _, feature := range view.Features[label] {
			v.Features.ValueFor(dataset.NormalizeToken(feature))
		}
	}
	return v
}

func (v *Vocabulary) FeatureCount() int {
	return v.Features.Size()
}

func (v *Vocabulary) LabelCount() int {
	return v.Labels.Size()
}
