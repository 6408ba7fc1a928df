package delta

import "unicode/utf16"

// iterator walks ops, splitting them at arbitrary lengths.
type iterator struct {
	ops    []Op
	index  int
	offset int
}

func newIterator(ops []Op) *iterator {
	return &iterator{ops: ops}
}

func (it *iterator) hasNext() bool {
	return it.peekLength() < infinity
}

// next consumes up to length positions of the current op; length <= 0 takes the rest of it.
// Past the end it yields an unbounded retain.
func (it *iterator) next(length int) Op {
	if length <= 0 {
		length = infinity
	}
	if it.index >= len(it.ops) {
		return Op{Retain: infinity}
	}

	op := it.ops[it.index]
	offset := it.offset
	opLength := op.Len()
	if length >= opLength-offset {
		length = opLength - offset
		it.index++
		it.offset = 0
	} else {
		it.offset += length
	}

	switch op.Type() {
	case OpDelete:
		return Op{Delete: length}
	case OpRetain:
		return Op{Retain: length, Attributes: op.Attributes}
	default:
		if op.Embed != nil {
			return Op{Embed: op.Embed, Attributes: op.Attributes}
		}
		return Op{Insert: substring(op.Insert, offset, length), Attributes: op.Attributes}
	}
}

func (it *iterator) peek() (Op, bool) {
	if it.index >= len(it.ops) {
		return Op{}, false
	}
	return it.ops[it.index], true
}

func (it *iterator) peekLength() int {
	if it.index >= len(it.ops) {
		return infinity
	}
	return it.ops[it.index].Len() - it.offset
}

func (it *iterator) peekType() OpType {
	if it.index >= len(it.ops) {
		return OpRetain
	}
	return it.ops[it.index].Type()
}

// rest returns the remaining ops without consuming them.
func (it *iterator) rest() []Op {
	if !it.hasNext() {
		return nil
	}
	if it.offset == 0 {
		return append([]Op(nil), it.ops[it.index:]...)
	}
	index, offset := it.index, it.offset
	head := it.next(0)
	rest := append([]Op{head}, it.ops[it.index:]...)
	it.index, it.offset = index, offset
	return rest
}

// substring slices s by UTF-16 code units. A cut through a surrogate pair
// leaves U+FFFD in place of the broken half.
func substring(s string, offset, length int) string {
	if offset == 0 && length >= len(s) {
		return s
	}
	units := utf16.Encode([]rune(s))
	end := min(offset+length, len(units))
	return string(utf16.Decode(units[offset:end]))
}
