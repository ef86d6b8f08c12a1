package dataset

import (
	"strconv"
	"strings"
)

// LoadListed reads rows in the listed shape: column 0 holds the target and the remaining cells of
// the row are its attribute values, as many as the row has. The first row is the header; cells past
// the header are named col_<index>. Empty cells are skipped. With removeDuplicates a (target, value)
// pair seen before is dropped.
func LoadListed(rows [][]string, removeDuplicates bool) ([]*Record, error) {
	if len(rows) == 0 {
		return nil, &ConfigurationError{Reason: "missing CSV header"}
	}
	header := rows[0]
	seen := map[string]map[string]struct{}{}

	var records []*Record
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		target := strings.TrimSpace(row[0])
		if target == "" {
			continue
		}
		pairs, ok := seen[target]
		if !ok {
			pairs = map[string]struct{}{}
			seen[target] = pairs
		}

		record := &Record{Target: StringValue(target)}
		for j := 1; j < len(row); j++ {
			value := strings.TrimSpace(row[j])
			if strings.TrimSpace(strings.Replace(value, "_", " ", 1)) == "" {
				continue
			}
			if removeDuplicates {
				if _, dup := pairs[value]; dup {
					continue
				}
				pairs[value] = struct{}{}
			}
			record.Attributes = append(record.Attributes, Attribute{Name: columnName(header, j), Value: StringValue(value)})
		}
		records = append(records, record)
	}
	return records, nil
}

func columnName(header []string, index int) string {
	if index < len(header) && strings.TrimSpace(header[index]) != "" {
		return strings.TrimSpace(header[index])
	}
	return "col_" + strconv.Itoa(index)
}

// LoadTabular reads rows in the tabular shape: every column other than the target and the excluded
// ones becomes a string attribute named after its header, then rows go through Normalize.
func LoadTabular(rows [][]string, exclude []string, opts LoadingOptions) ([]*Record, []DataError, error) {
	if len(rows) == 0 {
		return nil, nil, &ConfigurationError{Reason: "missing CSV header"}
	}
	excluded := map[string]struct{}{}
	for _, col := range exclude {
		excluded[col] = struct{}{}
	}
	attributeMap := map[string]AttributeMapping{}
	for _, col := range rows[0] {
		if _, skip := excluded[col]; skip || col == opts.TargetColumn {
			continue
		}
		attributeMap[col] = AttributeMapping{Name: col, Type: String}
	}
	return Normalize(rows, attributeMap, opts)
}
