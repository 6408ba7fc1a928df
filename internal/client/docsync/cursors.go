package docsync

import (
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	models "loomspace/internal/domain/models/workspace"
)

var cursorColors = []string{"#e11d48", "#2563eb", "#16a34a", "#d97706", "#7c3aed", "#0891b2", "#db2777", "#65a30d"}

// Cursor is a remote collaborator's caret overlay.
type Cursor struct {
	ID    string
	Name  string
	Color string
	Range *Range
}

// Cursors holds one overlay per remote collaborator, keyed by cursor id
// (the collaborator's user id). Overlays come from Seed or Create, never from
// an incoming move.
type Cursors struct {
	mu      sync.RWMutex
	cursors map[string]*Cursor
}

func NewCursors() *Cursors {
	return &Cursors{cursors: make(map[string]*Cursor)}
}

// Create adds an overlay, keeping the position of an existing one.
func (c *Cursors) Create(id, name, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cursors[id]; ok {
		existing.Name, existing.Color = name, color
		return
	}
	c.cursors[id] = &Cursor{ID: id, Name: name, Color: color}
}

// Seed creates an overlay for every user except self.
func (c *Cursors) Seed(users []models.User, self string) {
	for _, u := range users {
		if u.ID == "" || u.ID == self {
			continue
		}
		c.Create(u.ID, cursorName(u), cursorColor(u.ID))
	}
}

func cursorName(u models.User) string {
	switch {
	case u.FullName != nil && *u.FullName != "":
		return *u.FullName
	case u.Email != "":
		name, _, _ := strings.Cut(u.Email, "@")
		return name
	case len(u.ID) > 8:
		return u.ID[:8]
	default:
		return u.ID
	}
}

// cursorColor picks a stable palette entry so every peer shows a user in the same color.
func cursorColor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return cursorColors[h.Sum32()%uint32(len(cursorColors))]
}

// Move repositions an existing overlay. It reports false when there is none.
func (c *Cursors) Move(id string, r *Range) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cursor, ok := c.cursors[id]
	if !ok {
		return false
	}
	cursor.Range = r
	return true
}

func (c *Cursors) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cursors, id)
}

// Get returns a copy of the overlay
func (c *Cursors) Get(id string) (Cursor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cursor, ok := c.cursors[id]
	if !ok {
		return Cursor{}, false
	}
	return *cursor, true
}

// List returns every overlay ordered by id
func (c *Cursors) List() []Cursor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Cursor, 0, len(c.cursors))
	for _, cursor := range c.cursors {
		out = append(out, *cursor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
