// Package payload provides request field types that distinguish a key that is
// absent from one that is present with a null or empty value. Partial-update
// semantics depend on that distinction: absent keys are left untouched, an
// explicit null or empty value clears the field.
package payload

import "encoding/json"

// Field is a tri-state JSON value: absent, present-null, or present-value.
// The zero Field is absent; encoding/json only invokes UnmarshalJSON for keys
// that appear in the document, which is what captures presence.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether a non-null value was supplied.
func (f Field[T]) Get() (T, bool) {
	if !f.Present || f.Null {
		var zero T
		return zero, false
	}
	return f.Value, true
}

// Or returns the supplied value, or fallback when the field is absent or null.
func (f Field[T]) Or(fallback T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return fallback
}

// String is the common case: a tri-state string field.
type String = Field[string]

// Required pairs a key name with its presence for Missing checks.
type Required struct {
	Key     string
	Present bool
}

// Missing returns the names of every absent required key, in the order given.
// All keys are checked at once rather than short-circuiting on the first.
func Missing(required ...Required) []string {
	var missing []string
	for _, r := range required {
		if !r.Present {
			missing = append(missing, r.Key)
		}
	}
	return missing
}
