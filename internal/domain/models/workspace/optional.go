package workspace

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value=&"text": field has value
//
// Tag fields with `json:",omitzero"` so an absent value is not encoded.
type OptionalString struct {
	Present bool
	Value   *string
}

// Set returns a present OptionalString holding s.
func Set(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// Null returns a present OptionalString that clears the field.
func Null() OptionalString {
	return OptionalString{Present: true}
}

// or returns the patched value: a copy of o's value when present, otherwise current.
func (o OptionalString) or(current *string) *string {
	if !o.Present {
		return current
	}
	return clonePtr(o.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values are dropped by omitzero.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// capture wraps a current field value as a present OptionalString.
func capture(current *string) OptionalString {
	if current == nil {
		return Null()
	}
	return Set(*current)
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
