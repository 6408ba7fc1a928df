package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type wireOp struct {
	Insert     json.RawMessage `json:"insert,omitempty"`
	Delete     int             `json:"delete,omitempty"`
	Retain     int             `json:"retain,omitempty"`
	Attributes Attributes      `json:"attributes,omitempty"`
}

// MarshalJSON writes {"insert": ...} / {"delete": n} / {"retain": n}
func (o Op) MarshalJSON() ([]byte, error) {
	w := wireOp{Attributes: o.Attributes}
	switch o.Type() {
	case OpDelete:
		w.Delete = o.Delete
		w.Attributes = nil
	case OpInsert:
		var err error
		if o.Embed != nil {
			w.Insert, err = json.Marshal(o.Embed)
		} else {
			w.Insert, err = json.Marshal(o.Insert)
		}
		if err != nil {
			return nil, err
		}
	default:
		w.Retain = o.Retain
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts a string or object insert
func (o *Op) UnmarshalJSON(data []byte) error {
	var w wireOp
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*o = Op{Delete: w.Delete, Retain: w.Retain, Attributes: w.Attributes}
	if len(w.Insert) == 0 || bytes.Equal(w.Insert, []byte("null")) {
		return nil
	}
	switch w.Insert[0] {
	case '"':
		return json.Unmarshal(w.Insert, &o.Insert)
	case '{':
		return json.Unmarshal(w.Insert, &o.Embed)
	default:
		return fmt.Errorf("delta: unsupported insert %s", w.Insert)
	}
}

// MarshalJSON writes {"ops": [...]}
func (d Delta) MarshalJSON() ([]byte, error) {
	ops := d.Ops
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(struct {
		Ops []Op `json:"ops"`
	}{ops})
}

// UnmarshalJSON accepts {"ops": [...]} or a bare op array. Zero-length ops are dropped.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var ops []Op
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ops); err != nil {
			return err
		}
	} else {
		var wrapper struct {
			Ops []Op `json:"ops"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		ops = wrapper.Ops
	}

	d.Ops = d.Ops[:0]
	for _, op := range ops {
		if op.Len() > 0 {
			d.Ops = append(d.Ops, op)
		}
	}
	return nil
}

// Parse decodes a serialized delta
func Parse(data []byte) (*Delta, error) {
	d := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("delta: %w", err)
	}
	return d, nil
}

// String returns the JSON form
func (d *Delta) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("delta(%d ops)", len(d.Ops))
	}
	return string(b)
}
