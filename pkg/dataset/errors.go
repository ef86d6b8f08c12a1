package dataset

import "fmt"

// ConfigurationError reports a dataset or configuration that cannot be used at all,
// e.g. a target column missing from the header or an empty training set.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ParseError reports malformed CSV or JSON input together with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DataError is a non-fatal coercion warning: the cell was replaced by its type's default.
type DataError struct {
	Line   int
	Column string
	Value  string
	Kind   Kind
}

func (d DataError) Error() string {
	return fmt.Sprintf("line %d column %s: cannot read %q as %s", d.Line, d.Column, d.Value, d.Kind)
}

// CountCoercions counts the warnings per coercion kind.
func CountCoercions(warnings []DataError) map[Kind]int {
	counts := map[Kind]int{}
	for _, w := range warnings {
		counts[w.Kind]++
	}
	return counts
}
