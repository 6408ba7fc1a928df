package delta

import "reflect"

// Attributes are formatting keys such as bold or link. A nil value removes the
// key when composed onto a retain.
type Attributes map[string]interface{}

// Equal treats nil and empty as equal
func (a Attributes) Equal(b Attributes) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// ComposeAttributes overlays b on a. Keys b sets to nil are dropped unless keepNull,
// which is the case when the base op is a retain and the removal must still apply downstream.
func ComposeAttributes(a, b Attributes, keepNull bool) Attributes {
	out := Attributes{}
	for k, v := range b {
		if v == nil && !keepNull {
			continue
		}
		out[k] = v
	}
	for k, v := range a {
		if _, ok := b[k]; !ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
