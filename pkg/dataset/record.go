package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute is a named value of a Record
type Attribute struct {
	Name  string
	Value Value
}

// Attributes keeps the attributes of a record in insertion order. Names are unique.
type Attributes []Attribute

// Get returns the value stored under name
func (a Attributes) Get(name string) (Value, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return Value{}, false
}

func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Values returns the attribute values in order
func (a Attributes) Values() []Value {
	result := make([]Value, len(a))
	for i, attr := range a {
		result[i] = attr.Value
	}
	return result
}

// MarshalJSON writes the attributes as a JSON object preserving their order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var result Attributes
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var v Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("attribute %s: %w", key, err)
		}
		if result.Has(key) {
			return fmt.Errorf("duplicate attribute %s", key)
		}
		result = append(result, Attribute{Name: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*a = result
	return nil
}

// Record is one logical example: a target and its attributes.
type Record struct {
	Target     Value      `json:"target"`
	Attributes Attributes `json:"attributes"`
}

// Key is the identity used to group records by target
func (r *Record) Key() string {
	return r.Target.String()
}

// AttributeCount sums the attributes of all records
func AttributeCount(records []*Record) int {
	total := 0
	for _, r := range records {
		total += len(r.Attributes)
	}
	return total
}

// decodeOrderedObject walks the members of a JSON object in document order.
func decodeOrderedObject(data []byte, member func(key string, raw json.RawMessage) error) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", token)
	}
	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", token)
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return err
		}
		if err := member(key, raw); err != nil {
			return err
		}
	}
	_, err = decoder.Token()
	return err
}
