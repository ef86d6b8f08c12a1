package dataset

import (
	"fmt"
	"strings"
)

// AttributeMapping names and types the attribute read from one CSV column
type AttributeMapping struct {
	Name string
	Type Kind
}

// LoadingOptions control how raw rows become records
type LoadingOptions struct {
	// TargetColumn is the header of the column holding the record target
	TargetColumn string

	// TargetType is String or Number
	TargetType Kind

	// RemoveEmptyVals drops empty cells from the attributes and skips rows without a target
	RemoveEmptyVals bool

	// RemoveDuplicateTargets is accepted for compatibility and has no effect on normalization.
	// The listed loader applies it to repeated (target, value) pairs.
	RemoveDuplicateTargets bool
}

// Normalize converts raw CSV rows into records. The first row is the header. Only columns present
// in attributeMap become attributes. Values that cannot be coerced to their declared type are
// replaced by the type default and reported as warnings.
func Normalize(rows [][]string, attributeMap map[string]AttributeMapping, opts LoadingOptions) ([]*Record, []DataError, error) {
	if len(rows) == 0 {
		return nil, nil, &ConfigurationError{Reason: "missing CSV header"}
	}
	if opts.TargetType == Boolean {
		return nil, nil, &ConfigurationError{Reason: "target type must be string or number"}
	}
	header := rows[0]

	targetIndex := -1
	for i, col := range header {
		if col == opts.TargetColumn {
			targetIndex = i
			break
		}
	}
	if targetIndex == -1 {
		return nil, nil, &ConfigurationError{Reason: fmt.Sprintf("target column %s not found in data header", opts.TargetColumn)}
	}

	// resolve the header once so every row is read in header order
	mapped := make([]*AttributeMapping, len(header))
	seen := map[string]string{}
	for i, col := range header {
		m, ok := attributeMap[col]
		if !ok {
			continue
		}
		if other, dup := seen[m.Name]; dup {
			return nil, nil, &ConfigurationError{Reason: fmt.Sprintf("columns %s and %s both map to attribute %s", other, col, m.Name)}
		}
		seen[m.Name] = col
		mapped[i] = &m
	}

	var records []*Record
	var warnings []DataError
	for i, row := range rows[1:] {
		line := i + 2
		rawTarget, present := cellAt(row, targetIndex)
		if opts.RemoveEmptyVals && (!present || rawTarget == "") {
			continue
		}

		attributes := make(Attributes, 0, len(attributeMap))
		for j, m := range mapped {
			if m == nil {
				continue
			}
			cell, present := cellAt(row, j)
			if opts.RemoveEmptyVals && (!present || cell == "") {
				continue
			}
			value, ok := coerce(cell, m.Type)
			if !ok {
				warnings = append(warnings, DataError{Line: line, Column: header[j], Value: cell, Kind: m.Type})
			}
			attributes = append(attributes, Attribute{Name: m.Name, Value: value})
		}

		var target Value
		if opts.TargetType == Number {
			target = NumberValue(parseNumber(rawTarget))
		} else {
			target = StringValue(rawTarget)
		}
		records = append(records, &Record{Target: target, Attributes: attributes})
	}
	return records, warnings, nil
}

func cellAt(row []string, index int) (string, bool) {
	if index >= len(row) {
		return "", false
	}
	return row[index], true
}

// coerce converts a raw cell; ok is false when the type default was used instead.
func coerce(cell string, kind Kind) (Value, bool) {
	switch kind {
	case Number:
		f, ok := parseLeadingFloat(cell)
		if !ok {
			return NumberValue(0), false
		}
		return NumberValue(f), true
	case Boolean:
		return BooleanValue(cell == "true"), cell == "true" || cell == "false"
	default:
		return StringValue(strings.TrimSpace(cell)), true
	}
}
