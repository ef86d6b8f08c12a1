package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// View is the label -> feature list form of a dataset. Labels keep their first-seen order and
// each feature list keeps its first-seen order without duplicates.
type View struct {
	Labels   []string
	Features map[string][]string
	seen     map[string]map[string]struct{}
}

func NewView() *View {
	return &View{
		Features: map[string][]string{},
		seen:     map[string]map[string]struct{}{},
	}
}

// NormalizeToken trims and lower-cases a feature or label token
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add appends features to label, both normalized. Empty tokens are ignored.
func (v *View) Add(label string, features ...string) {
	label = NormalizeToken(label)
	if label == "" {
		return
	}
	seen, ok := v.seen[label]
	if !ok {
		seen = map[string]struct{}{}
		v.seen[label] = seen
		v.Labels = append(v.Labels, label)
		v.Features[label] = []string{}
	}
	for _, f := range features {
		f = NormalizeToken(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		v.Features[label] = append(v.Features[label], f)
	}
}

func (v *View) Len() int {
	return len(v.Labels)
}

// ValuesView groups the attribute values of each record under its target
func ValuesView(records []*Record) *View {
	view := NewView()
	for _, r := range records {
		features := make([]string, len(r.Attributes))
		for i, attr := range r.Attributes {
			features[i] = attr.Value.String()
		}
		view.Add(r.Key(), features...)
	}
	return view
}

// NamesView groups the attribute names of each record under its target
func NamesView(records []*Record) *View {
	view := NewView()
	for _, r := range records {
		features := make([]string, len(r.Attributes))
		for i, attr := range r.Attributes {
			features[i] = attr.Name
		}
		view.Add(r.Key(), features...)
	}
	return view
}

// MarshalJSON writes the view as a JSON object of label -> features, in label order.
func (v *View) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range v.Labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		features, err := json.Marshal(v.Features[label])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(features)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *View) UnmarshalJSON(data []byte) error {
	result := NewView()
	err := decodeOrderedObject(data, func(label string, raw json.RawMessage) error {
		var features []string
		if err := json.Unmarshal(raw, &features); err != nil {
			return fmt.Errorf("label %s: %w", label, err)
		}
		result.Add(label, features...)
		return nil
	})
	if err != nil {
		return err
	}
	*v = *result
	return nil
}
