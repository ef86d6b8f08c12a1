package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuesView(t *testing.T) {
	records := []*Record{
		record("Flu", "s1", " Fever", "s2", "cough", "s3", "fever"),
		record("cold", "s1", "sneezing", "s2", ""),
		record("flu", "s1", "ache"),
	}
	view := ValuesView(records)
	require.Equal(t, []string{"flu", "cold"}, view.Labels)
	require.Equal(t, []string{"fever", "cough", "ache"}, view.Features["flu"])
	require.Equal(t, []string{"sneezing"}, view.Features["cold"])
	require.Equal(t, 2, view.Len())
}

func TestNamesView(t *testing.T) {
	records := []*Record{
		{Target: NumberValue(1), Attributes: Attributes{{Name: "Age", Value: NumberValue(67)}, {Name: "bmi", Value: NumberValue(36.6)}}},
		{Target: NumberValue(0), Attributes: Attributes{{Name: "age", Value: NumberValue(61)}}},
	}
	view := NamesView(records)
	require.Equal(t, []string{"1", "0"}, view.Labels)
	require.Equal(t, []string{"age", "bmi"}, view.Features["1"])
	require.Equal(t, []string{"age"}, view.Features["0"])
}

func TestViewJSON(t *testing.T) {
	view := NewView()
	view.Add("zebra", "b", "a")
	view.Add("apple")
	view.Add("mango", "c")

	data, err := json.Marshal(view)
	require.NoError(t, err)
	require.Equal(t, `{"zebra":["b","a"],"apple":[],"mango":["c"]}`, string(data))

	decoded := NewView()
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, view.Labels, decoded.Labels)
	require.Equal(t, view.Features, decoded.Features)

	require.Error(t, json.Unmarshal([]byte(`["zebra"]`), decoded))
}

func TestRecordJSON(t *testing.T) {
	records := []*Record{
		{Target: StringValue("flu"), Attributes: Attributes{
			{Name: "z", Value: StringValue("fever")},
			{Name: "a", Value: NumberValue(1.5)},
			{Name: "m", Value: BooleanValue(true)},
		}},
		{Target: NumberValue(2), Attributes: Attributes{{Name: "x", Value: NumberValue(0)}}},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.Equal(t,
		`[{"target":"flu","attributes":{"z":"fever","a":1.5,"m":true}},{"target":2,"attributes":{"x":0}}]`,
		string(data))

	var decoded []*Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, records, decoded)

	require.Error(t, json.Unmarshal([]byte(`{"a":1,"a":2}`), &Attributes{}))
}
