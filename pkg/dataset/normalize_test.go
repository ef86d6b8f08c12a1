package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func symptomRows() [][]string {
	return [][]string{
		{"id", "disease", "fever", "weight", "smoker"},
		{"1", "flu", " high ", "70.5", "true"},
		{"2", "cold", "", "heavy", "yes"},
		{"3", "", "low", "60", "false"},
		{"4", "flu", "mild", "12kg"},
	}
}

func symptomMapping() map[string]AttributeMapping {
	return map[string]AttributeMapping{
		"fever":  {Name: "Fever", Type: String},
		"weight": {Name: "Weight", Type: Number},
		"smoker": {Name: "Smoker", Type: Boolean},
	}
}

func TestNormalize(t *testing.T) {
	records, warnings, err := Normalize(symptomRows(), symptomMapping(), LoadingOptions{
		TargetColumn:    "disease",
		RemoveEmptyVals: true,
	})
	require.NoError(t, err)
	require.Equal(t, 3, len(records)) // the row without a target is dropped

	flu := records[0]
	require.Equal(t, StringValue("flu"), flu.Target)
	require.Equal(t, Attributes{
		{Name: "Fever", Value: StringValue("high")},
		{Name: "Weight", Value: NumberValue(70.5)},
		{Name: "Smoker", Value: BooleanValue(true)},
	}, flu.Attributes)

	cold := records[1]
	require.False(t, cold.Attributes.Has("Fever"))
	weight, ok := cold.Attributes.Get("Weight")
	require.True(t, ok)
	require.Equal(t, NumberValue(0), weight)
	smoker, _ := cold.Attributes.Get("Smoker")
	require.Equal(t, BooleanValue(false), smoker)

	// the short row has no smoker cell at all
	require.Equal(t, 2, len(records[2].Attributes))
	weight, _ = records[2].Attributes.Get("Weight")
	require.Equal(t, 12.0, weight.Num)

	require.Equal(t, []DataError{
		{Line: 3, Column: "weight", Value: "heavy", Kind: Number},
		{Line: 3, Column: "smoker", Value: "yes", Kind: Boolean},
	}, warnings)
	require.Equal(t, map[Kind]int{Number: 1, Boolean: 1}, CountCoercions(warnings))
}

func TestNormalizeKeepsEmptyValues(t *testing.T) {
	records, _, err := Normalize(symptomRows(), symptomMapping(), LoadingOptions{TargetColumn: "disease"})
	require.NoError(t, err)
	require.Equal(t, 4, len(records))

	fever, ok := records[1].Attributes.Get("Fever")
	require.True(t, ok)
	require.Equal(t, StringValue(""), fever)
	require.Equal(t, StringValue(""), records[2].Target)

	smoker, ok := records[3].Attributes.Get("Smoker")
	require.True(t, ok)
	require.Equal(t, BooleanValue(false), smoker)
}

func TestNormalizeSkippedRowsRaiseNoWarnings(t *testing.T) {
	rows := [][]string{
		{"target", "weight"},
		{"", "heavy"},
		{"flu", "light"},
	}
	records, warnings, err := Normalize(rows, map[string]AttributeMapping{"weight": {Name: "Weight", Type: Number}}, LoadingOptions{
		TargetColumn:    "target",
		RemoveEmptyVals: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, len(records))
	require.Equal(t, []DataError{{Line: 3, Column: "weight", Value: "light", Kind: Number}}, warnings)
}

func TestNormalizeNumericTarget(t *testing.T) {
	rows := [][]string{
		{"score", "a"},
		{"4", "x"},
		{"four", "y"},
	}
	records, _, err := Normalize(rows, map[string]AttributeMapping{"a": {Name: "a"}}, LoadingOptions{
		TargetColumn: "score",
		TargetType:   Number,
	})
	require.NoError(t, err)
	require.Equal(t, NumberValue(4), records[0].Target)
	require.True(t, math.IsNaN(records[1].Target.Num))
	require.Equal(t, "NaN", records[1].Key())
}

func TestNormalizeMissingTarget(t *testing.T) {
	_, _, err := Normalize(symptomRows(), symptomMapping(), LoadingOptions{TargetColumn: "diagnosis"})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Contains(t, err.Error(), "diagnosis")
}

func TestNormalizeDuplicateAttributeNames(t *testing.T) {
	mapping := symptomMapping()
	mapping["id"] = AttributeMapping{Name: "Fever"}
	_, _, err := Normalize(symptomRows(), mapping, LoadingOptions{TargetColumn: "disease"})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		cell  string
		kind  Kind
		value Value
		ok    bool
	}{
		{"  spaced ", String, StringValue("spaced"), true},
		{"3.25", Number, NumberValue(3.25), true},
		{"-1e3", Number, NumberValue(-1000), true},
		{"3.5 kg", Number, NumberValue(3.5), true},
		{".5", Number, NumberValue(0.5), true},
		{"abc", Number, NumberValue(0), false},
		{"", Number, NumberValue(0), false},
		{"true", Boolean, BooleanValue(true), true},
		{"false", Boolean, BooleanValue(false), true},
		{"TRUE", Boolean, BooleanValue(false), false},
	}
	for _, test := range tests {
		value, ok := coerce(test.cell, test.kind)
		require.Equal(t, test.value, value, test.cell)
		require.Equal(t, test.ok, ok, test.cell)
	}
}
