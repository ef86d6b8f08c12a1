package dataset

import "strconv"

// Merge folds records sharing the same target into one record per target, in first-seen target
// order. An attribute name already taken in the merged record is stored as name_2, name_3, ...
// so every input attribute is kept. The input records are not modified.
func Merge(records []*Record) []*Record {
	var result []*Record
	merged := map[string]*Record{}
	used := map[string]map[string]struct{}{}

	for _, r := range records {
		key := r.Key()
		acc, ok := merged[key]
		if !ok {
			acc = &Record{Target: r.Target, Attributes: make(Attributes, 0, len(r.Attributes))}
			merged[key] = acc
			used[key] = map[string]struct{}{}
			result = append(result, acc)
		}
		names := used[key]
		for _, attr := range r.Attributes {
			name := freeName(names, attr.Name)
			names[name] = struct{}{}
			acc.Attributes = append(acc.Attributes, Attribute{Name: name, Value: attr.Value})
		}
	}
	return result
}

func freeName(used map[string]struct{}, name string) string {
	candidate := name
	for index := 2; ; index++ {
		if _, taken := used[candidate]; !taken {
			return candidate
		}
		candidate = name + "_" + strconv.Itoa(index)
	}
}
