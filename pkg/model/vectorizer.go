package model

import (
	"fmt"
	"math"

	"featurenet/pkg/dataset"
	"featurenet/pkg/ranking"
)

// Sample is one input/output vector pair, both laid out by the vocabulary indexes.
type Sample struct {
	Input  []float64
	Output []float64
}

// Vectorizer turns records and feature lists into fixed width vectors over a vocabulary.
type Vectorizer struct {
	vocabulary *Vocabulary
}

func NewVectorizer(vocabulary *Vocabulary) *Vectorizer {
	return &Vectorizer{vocabulary: vocabulary}
}

func (v *Vectorizer) Vocabulary() *Vocabulary {
	return v.vocabulary
}

// ListedSamples builds one sample per label of the view: the label's features set to 1 in the
// input, the label set to 1 in the output, everything else 0.
func (v *Vectorizer) ListedSamples(view *dataset.View) []*Sample {
	samples := make([]*Sample, 0, view.Len())
	for _, label := range view.Labels {
		sample := &Sample{
			Input:  v.Features(view.Features[label]),
			Output: make([]float64, v.vocabulary.LabelCount()),
		}
		if index, ok := v.vocabulary.Labels.ContainsName(dataset.NormalizeToken(label)); ok {
			sample.Output[index] = 1
		}
		samples = append(samples, sample)
	}
	return samples
}

// TabularSamples builds one sample per record: attribute values as numeric inputs indexed by
// attribute name, and the record's label slot set to 1, or to the target value when numericTarget.
func (v *Vectorizer) TabularSamples(records []*dataset.Record, numericTarget bool) ([]*Sample, error) {
	samples := make([]*Sample, 0, len(records))
	for _, r := range records {
		sample := &Sample{
			Input:  v.Attributes(r.Attributes),
			Output: make([]float64, v.vocabulary.LabelCount()),
		}
		index, ok := v.vocabulary.Labels.ContainsName(dataset.NormalizeToken(r.Key()))
		if !ok {
			continue
		}
		if numericTarget {
			if r.Target.Kind != dataset.Number || math.IsNaN(r.Target.Num) {
				return nil, &dataset.ConfigurationError{Reason: fmt.Sprintf("target %q is not numeric", r.Key())}
			}
			sample.Output[index] = r.Target.Num
		} else {
			sample.Output[index] = 1
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// Features builds an inference input: known features set to 1, unknown ones ignored.
func (v *Vectorizer) Features(features []string) []float64 {
	input := make([]float64, v.vocabulary.FeatureCount())
	for _, f := range features {
		if index, ok := v.vocabulary.Features.ContainsName(dataset.NormalizeToken(f)); ok {
			input[index] = 1
		}
	}
	return input
}

// Attributes builds an inference input from named attributes; unknown names are ignored.
func (v *Vectorizer) Attributes(attributes dataset.Attributes) []float64 {
	input := make([]float64, v.vocabulary.FeatureCount())
	for _, attr := range attributes {
		if index, ok := v.vocabulary.Features.ContainsName(dataset.NormalizeToken(attr.Name)); ok {
			input[index] = attr.Value.Float()
		}
	}
	return input
}

// Scores pairs a classifier output with the vocabulary labels, in label index order.
func (v *Vectorizer) Scores(output []float64) []ranking.Score {
	scores := make([]ranking.Score, 0, len(output))
	for i, value := range output {
		if i >= v.vocabulary.LabelCount() {
			break
		}
		scores = append(scores, ranking.Score{Label: v.vocabulary.Labels.IndexToName[i], Value: value})
	}
	return scores
}
