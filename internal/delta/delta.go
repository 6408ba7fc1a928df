// Package delta implements rich-text deltas: an ordered list of insert, delete
// and retain operations, in the JSON format Quill editors exchange.
//
// Lengths are counted in UTF-16 code units, as Quill counts them, so an emoji
// outside the Basic Multilingual Plane covers two positions.
package delta

import (
	"math"
	"reflect"
	"strings"
	"unicode/utf16"
)

// infinity marks the implicit retain past the end of a delta.
const infinity = math.MaxInt

// OpType classifies an operation
type OpType int

const (
	OpRetain OpType = iota
	OpInsert
	OpDelete
)

func (t OpType) String() string {
	switch t {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "retain"
	}
}

// Op is one operation. Exactly one of Insert/Embed, Delete or Retain is set.
type Op struct {
	Insert     string
	Embed      map[string]interface{} // non-text insert such as {"image": url}
	Delete     int
	Retain     int
	Attributes Attributes
}

// Type reports the kind of operation
func (o Op) Type() OpType {
	switch {
	case o.Delete > 0:
		return OpDelete
	case o.Insert != "" || o.Embed != nil:
		return OpInsert
	default:
		return OpRetain
	}
}

// Len is the number of positions the op covers. An embed counts as one.
func (o Op) Len() int {
	switch {
	case o.Delete > 0:
		return o.Delete
	case o.Retain > 0:
		return o.Retain
	case o.Embed != nil:
		return 1
	default:
		return textLen(o.Insert)
	}
}

func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func (o Op) equal(other Op) bool {
	return o.Insert == other.Insert &&
		o.Delete == other.Delete &&
		o.Retain == other.Retain &&
		reflect.DeepEqual(o.Embed, other.Embed) &&
		o.Attributes.Equal(other.Attributes)
}

// Delta is an ordered list of operations
type Delta struct {
	Ops []Op
}

// New returns an empty delta
func New() *Delta {
	return &Delta{}
}

// FromOps wraps ops without merging them
func FromOps(ops []Op) *Delta {
	return &Delta{Ops: ops}
}

// Insert appends a text insert. Empty text is ignored.
func (d *Delta) Insert(text string, attrs Attributes) *Delta {
	if text == "" {
		return d
	}
	return d.Push(Op{Insert: text, Attributes: attrs})
}

// InsertEmbed appends a non-text insert
func (d *Delta) InsertEmbed(embed map[string]interface{}, attrs Attributes) *Delta {
	if len(embed) == 0 {
		return d
	}
	return d.Push(Op{Embed: embed, Attributes: attrs})
}

// Delete appends a delete. Non-positive lengths are ignored.
func (d *Delta) Delete(n int) *Delta {
	if n <= 0 {
		return d
	}
	return d.Push(Op{Delete: n})
}

// Retain appends a retain. Non-positive lengths are ignored.
func (d *Delta) Retain(n int, attrs Attributes) *Delta {
	if n <= 0 {
		return d
	}
	return d.Push(Op{Retain: n, Attributes: attrs})
}

// Push appends op, merging it into the previous op when they are compatible.
// A delete is kept ahead of an insert at the same position.
func (d *Delta) Push(op Op) *Delta {
	if len(op.Attributes) == 0 {
		op.Attributes = nil
	}
	index := len(d.Ops)
	if index == 0 {
		d.Ops = append(d.Ops, op)
		return d
	}

	last := &d.Ops[index-1]
	if op.Type() == OpDelete && last.Type() == OpDelete {
		last.Delete += op.Delete
		return d
	}
	// Insert before a trailing delete
	if last.Type() == OpDelete && op.Type() == OpInsert {
		index--
		if index == 0 {
			d.Ops = append([]Op{op}, d.Ops...)
			return d
		}
		last = &d.Ops[index-1]
	}
	if last.Attributes.Equal(op.Attributes) {
		if last.Embed == nil && op.Embed == nil && last.Insert != "" && op.Insert != "" {
			last.Insert += op.Insert
			return d
		}
		if last.Type() == OpRetain && op.Type() == OpRetain && last.Retain > 0 && op.Retain > 0 {
			last.Retain += op.Retain
			return d
		}
	}

	if index == len(d.Ops) {
		d.Ops = append(d.Ops, op)
		return d
	}
	d.Ops = append(d.Ops, Op{})
	copy(d.Ops[index+1:], d.Ops[index:])
	d.Ops[index] = op
	return d
}

// Chop drops a trailing plain retain, which is a no-op.
func (d *Delta) Chop() *Delta {
	if n := len(d.Ops); n > 0 {
		last := d.Ops[n-1]
		if last.Type() == OpRetain && last.Attributes == nil {
			d.Ops = d.Ops[:n-1]
		}
	}
	return d
}

// Length is the total length of all ops
func (d *Delta) Length() int {
	n := 0
	for _, op := range d.Ops {
		n += op.Len()
	}
	return n
}

// ChangeLength is how much the delta grows or shrinks the document it applies to
func (d *Delta) ChangeLength() int {
	n := 0
	for _, op := range d.Ops {
		switch op.Type() {
		case OpInsert:
			n += op.Len()
		case OpDelete:
			n -= op.Delete
		}
	}
	return n
}

// IsDocument reports whether the delta contains only inserts
func (d *Delta) IsDocument() bool {
	for _, op := range d.Ops {
		if op.Type() != OpInsert {
			return false
		}
	}
	return true
}

// Text concatenates the text inserts. Embeds are skipped.
func (d *Delta) Text() string {
	var b strings.Builder
	for _, op := range d.Ops {
		if op.Type() == OpInsert && op.Embed == nil {
			b.WriteString(op.Insert)
		}
	}
	return b.String()
}

// Concat returns d followed by other, merging at the seam
func (d *Delta) Concat(other *Delta) *Delta {
	out := &Delta{Ops: append([]Op(nil), d.Ops...)}
	if other == nil || len(other.Ops) == 0 {
		return out
	}
	out.Push(other.Ops[0])
	out.Ops = append(out.Ops, other.Ops[1:]...)
	return out
}

// Slice returns the ops covering positions [start, end). end < 0 means to the end.
func (d *Delta) Slice(start, end int) *Delta {
	if end < 0 {
		end = infinity
	}
	var ops []Op
	it := newIterator(d.Ops)
	index := 0
	for index < end && it.hasNext() {
		var next Op
		if index < start {
			next = it.next(start - index)
		} else {
			next = it.next(end - index)
			ops = append(ops, next)
		}
		index += next.Len()
	}
	return &Delta{Ops: ops}
}

// Compose returns the delta equivalent to applying d and then other.
// Applying a change to a document is composing the document with it.
func (d *Delta) Compose(other *Delta) *Delta {
	thisIter := newIterator(d.Ops)
	otherIter := newIterator(other.Ops)

	var ops []Op
	// Leading plain retain of other keeps this delta's inserts verbatim
	if first, ok := otherIter.peek(); ok && first.Type() == OpRetain && first.Attributes == nil {
		firstLeft := first.Retain
		for thisIter.peekType() == OpInsert && thisIter.peekLength() <= firstLeft {
			firstLeft -= thisIter.peekLength()
			ops = append(ops, thisIter.next(0))
		}
		if first.Retain-firstLeft > 0 {
			otherIter.next(first.Retain - firstLeft)
		}
	}

	out := &Delta{Ops: ops}
	for thisIter.hasNext() || otherIter.hasNext() {
		switch {
		case otherIter.peekType() == OpInsert:
			out.Push(otherIter.next(0))
		case thisIter.peekType() == OpDelete:
			out.Push(thisIter.next(0))
		default:
			length := min(thisIter.peekLength(), otherIter.peekLength())
			thisOp := thisIter.next(length)
			otherOp := otherIter.next(length)

			switch {
			case otherOp.Type() == OpRetain:
				var newOp Op
				if thisOp.Type() == OpRetain {
					newOp.Retain = length
				} else {
					newOp.Insert = thisOp.Insert
					newOp.Embed = thisOp.Embed
				}
				newOp.Attributes = ComposeAttributes(thisOp.Attributes, otherOp.Attributes, thisOp.Type() == OpRetain)
				out.Push(newOp)

				// Rest of other is a plain retain: the rest of this passes through
				if !otherIter.hasNext() && out.Ops[len(out.Ops)-1].equal(newOp) {
					rest := &Delta{Ops: thisIter.rest()}
					return out.Concat(rest).Chop()
				}
			case otherOp.Type() == OpDelete && thisOp.Type() == OpRetain:
				out.Push(otherOp)
			}
			// other deleting this insert cancels both
		}
	}
	return out.Chop()
}

// Apply composes change onto a document, returning the new document.
func Apply(doc, change *Delta) *Delta {
	if doc == nil {
		doc = New()
	}
	if change == nil {
		return doc
	}
	return doc.Compose(change)
}
