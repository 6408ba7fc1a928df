package docsync

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the Debouncer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production, a fake clock in tests.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer tracks the save indicator of an open document. Every local edit
// marks it saving and restarts the quiet window; when the window passes with
// no edit it is marked saved. It does not write anything itself.
type Debouncer struct {
	window    time.Duration
	afterFunc AfterFunc
	onSaved   func()

	mu         sync.Mutex
	timer      Timer
	generation uint64
	saving     bool
}

// NewDebouncer creates a debouncer. A nil afterFunc uses time.AfterFunc; onSaved may be nil.
func NewDebouncer(window time.Duration, afterFunc AfterFunc, onSaved func()) *Debouncer {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Debouncer{window: window, afterFunc: afterFunc, onSaved: onSaved}
}

// Touch records an edit
func (d *Debouncer) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	d.saving = true
	generation := d.generation
	d.timer = d.afterFunc(d.window, func() { d.expire(generation) })
}

// Stop cancels a pending window without marking the document saved.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	d.saving = false
}

// Saving reports whether a window is pending
func (d *Debouncer) Saving() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saving
}

// expire fires onSaved unless a later Touch or Stop superseded this window.
func (d *Debouncer) expire(generation uint64) {
	d.mu.Lock()
	if generation != d.generation || !d.saving {
		d.mu.Unlock()
		return
	}
	d.saving = false
	d.timer = nil
	onSaved := d.onSaved
	d.mu.Unlock()

	if onSaved != nil {
		onSaved()
	}
}
