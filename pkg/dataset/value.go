package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the type of a Value
type Kind int

const (
	String Kind = iota
	Number
	Boolean
)

// ParseKind maps a configured type name to a Kind. An empty name means String.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "", "string":
		return String, nil
	case "number":
		return Number, nil
	case "boolean":
		return Boolean, nil
	}
	return String, &ConfigurationError{Reason: fmt.Sprintf("unknown attribute type %q", name)}
}

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	default:
		return "string"
	}
}

// Value holds an attribute or target value: a string, a number or a boolean.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value { return Value{Kind: String, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: Number, Num: f} }
func BooleanValue(b bool) Value { return Value{Kind: Boolean, Bool: b} }

// String renders the value the way it is used as a map key or a feature token.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return formatNumber(v.Num)
	case Boolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Float converts the value into a numeric input: numbers as is, booleans as 1/0 and strings
// parsed leniently, 0 when nothing numeric can be read.
func (v Value) Float() float64 {
	switch v.Kind {
	case Number:
		if math.IsNaN(v.Num) {
			return 0
		}
		return v.Num
	case Boolean:
		if v.Bool {
			return 1
		}
		return 0
	default:
		f, ok := parseLeadingFloat(v.Str)
		if !ok {
			return 0
		}
		return f
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			// JSON has no NaN or Inf, keep them readable as strings tagged by kind
			return json.Marshal(map[string]string{"number": formatNumber(v.Num)})
		}
		return json.Marshal(v.Num)
	case Boolean:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = StringValue(x)
	case float64:
		*v = NumberValue(x)
	case bool:
		*v = BooleanValue(x)
	case nil:
		*v = StringValue("")
	case map[string]interface{}:
		s, ok := x["number"].(string)
		if !ok {
			return fmt.Errorf("unsupported value %s", string(data))
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("unsupported number %q: %w", s, err)
		}
		*v = NumberValue(f)
	default:
		return fmt.Errorf("unsupported value %s", string(data))
	}
	return nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseLeadingFloat reads the longest numeric prefix of s, ignoring leading whitespace,
// so "3.5 kg" reads as 3.5.
func parseLeadingFloat(s string) (float64, bool) {
	match := leadingFloat.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseNumber is a whole-string numeric cast: blank is 0, anything not numeric is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
