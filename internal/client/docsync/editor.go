// Package docsync keeps one open document in step with the other people
// editing it: local edits and cursor moves go out over the realtime
// transport, remote ones are applied to the local editor.
package docsync

import (
	"strings"
	"sync"

	"loomspace/internal/delta"
)

// Source says where an editor change came from.
type Source string

const (
	SourceUser   Source = "user"   // typed by the local user
	SourceAPI    Source = "api"    // applied programmatically, e.g. a remote change
	SourceSilent Source = "silent" // applied without notifying listeners
)

// Range is a selection: Length 0 is a caret.
type Range struct {
	Index  int `json:"index"`
	Length int `json:"length"`
}

type TextChangeHandler func(change, old *delta.Delta, source Source)

type SelectionChangeHandler func(r *Range, source Source)

// Editor is the document instance a Session drives.
type Editor interface {
	OnTextChange(fn TextChangeHandler) (off func())
	OnSelectionChange(fn SelectionChangeHandler) (off func())
	// UpdateContents composes change onto the document
	UpdateContents(change *delta.Delta, source Source)
	// SetContents replaces the document
	SetContents(doc *delta.Delta, source Source)
	Contents() *delta.Delta
}

// MemoryEditor is a headless Editor. Listeners run synchronously on the
// goroutine that changed the document, after the change is applied.
type MemoryEditor struct {
	mu        sync.Mutex
	doc       *delta.Delta
	selection *Range

	nextID             int
	textListeners      map[int]TextChangeHandler
	selectionListeners map[int]SelectionChangeHandler
}

func NewMemoryEditor() *MemoryEditor {
	return &MemoryEditor{
		doc:                delta.New(),
		textListeners:      make(map[int]TextChangeHandler),
		selectionListeners: make(map[int]SelectionChangeHandler),
	}
}

func (e *MemoryEditor) OnTextChange(fn TextChangeHandler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.textListeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.textListeners, id)
		e.mu.Unlock()
	}
}

func (e *MemoryEditor) OnSelectionChange(fn SelectionChangeHandler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.selectionListeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.selectionListeners, id)
		e.mu.Unlock()
	}
}

func (e *MemoryEditor) UpdateContents(change *delta.Delta, source Source) {
	e.apply(func(*delta.Delta) *delta.Delta { return change }, source)
}

// apply composes the change built from the current document, so the position
// it targets cannot move before it lands.
func (e *MemoryEditor) apply(build func(doc *delta.Delta) *delta.Delta, source Source) {
	e.mu.Lock()
	old := e.doc
	change := build(old)
	if change == nil || len(change.Ops) == 0 {
		e.mu.Unlock()
		return
	}
	e.doc = old.Compose(change)
	handlers := e.textHandlers()
	e.mu.Unlock()

	if source == SourceSilent {
		return
	}
	for _, fn := range handlers {
		fn(change, old, source)
	}
}

func (e *MemoryEditor) SetContents(doc *delta.Delta, source Source) {
	if doc == nil {
		doc = delta.New()
	}
	e.mu.Lock()
	old := e.doc
	e.doc = delta.New().Concat(doc)
	handlers := e.textHandlers()
	e.mu.Unlock()

	if source == SourceSilent {
		return
	}
	change := delta.New().Delete(old.Length()).Concat(doc)
	for _, fn := range handlers {
		fn(change, old, source)
	}
}

// Contents returns a copy of the document
func (e *MemoryEditor) Contents() *delta.Delta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return delta.New().Concat(e.doc)
}

// Text is the document's plain text
func (e *MemoryEditor) Text() string {
	return e.Contents().Text()
}

// InsertText inserts text at index as if typed by source.
func (e *MemoryEditor) InsertText(index int, text string, source Source) {
	e.UpdateContents(delta.New().Retain(index, nil).Insert(text, nil), source)
}

// AppendLine adds line as the document's last line. A trailing newline, which
// Quill documents always have, stays last.
func (e *MemoryEditor) AppendLine(line string, source Source) {
	e.apply(func(doc *delta.Delta) *delta.Delta {
		length := doc.Length()
		switch {
		case length == 0:
			return delta.New().Insert(line+"\n", nil)
		case !endsWithNewline(doc):
			return delta.New().Retain(length, nil).Insert("\n"+line+"\n", nil)
		case length == 1:
			return delta.New().Insert(line, nil)
		default:
			return delta.New().Retain(length-1, nil).Insert("\n"+line, nil)
		}
	}, source)
}

func endsWithNewline(doc *delta.Delta) bool {
	if len(doc.Ops) == 0 {
		return false
	}
	return strings.HasSuffix(doc.Ops[len(doc.Ops)-1].Insert, "\n")
}

// DeleteText removes length positions starting at index.
func (e *MemoryEditor) DeleteText(index, length int, source Source) {
	e.UpdateContents(delta.New().Retain(index, nil).Delete(length), source)
}

// SetSelection moves the local selection; nil means the editor lost focus.
func (e *MemoryEditor) SetSelection(r *Range, source Source) {
	e.mu.Lock()
	e.selection = r
	handlers := make([]SelectionChangeHandler, 0, len(e.selectionListeners))
	for id := 0; id < e.nextID; id++ {
		if fn, ok := e.selectionListeners[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	e.mu.Unlock()

	if source == SourceSilent {
		return
	}
	for _, fn := range handlers {
		fn(r, source)
	}
}

// Selection returns the current selection
func (e *MemoryEditor) Selection() *Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// textHandlers snapshots text listeners in registration order. Caller holds mu.
func (e *MemoryEditor) textHandlers() []TextChangeHandler {
	handlers := make([]TextChangeHandler, 0, len(e.textListeners))
	for id := 0; id < e.nextID; id++ {
		if fn, ok := e.textListeners[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	return handlers
}
