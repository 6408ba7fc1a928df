package docsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"loomspace/internal/config"
	"loomspace/internal/delta"
	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/realtime"
)

// UnloadFunc receives the editor snapshot when a session closes.
type UnloadFunc func(docID string, doc *delta.Delta)

// Options configures a Session. Zero values get defaults.
type Options struct {
	// CursorID identifies the local user's caret to peers, normally the user id.
	CursorID string
	// Peers seeds the cursor overlays, usually from RoomUsers.
	Peers     []models.User
	Cursors   *Cursors
	Debouncer *Debouncer
	OnUnload  UnloadFunc
}

// Session binds one editor to one document room at a time. Open acquires the
// room and listeners; Close releases all of them however the session ends.
type Session struct {
	editor    Editor
	transport Transport
	opts      Options
	logger    *slog.Logger

	mu     sync.Mutex
	docID  string
	open   bool
	offs   []func()
	cancel func() bool
}

func NewSession(editor Editor, transport Transport, opts Options, logger *slog.Logger) *Session {
	if opts.Cursors == nil {
		opts.Cursors = NewCursors()
	}
	opts.Cursors.Seed(opts.Peers, opts.CursorID)
	if opts.Debouncer == nil {
		opts.Debouncer = NewDebouncer(config.DefaultRealtime().SaveDebounce, nil, nil)
	}
	return &Session{
		editor:    editor,
		transport: transport,
		opts:      opts,
		logger:    logger,
	}
}

// DocumentID returns the open document, or "" when closed.
func (s *Session) DocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ""
	}
	return s.docID
}

func (s *Session) Cursors() *Cursors {
	return s.opts.Cursors
}

// Saving reports whether a local edit is inside the save window.
func (s *Session) Saving() bool {
	return s.opts.Debouncer.Saving()
}

// Open joins docID's room and starts relaying. The session closes itself when
// ctx is done.
func (s *Session) Open(ctx context.Context, docID string) error {
	if s.editor == nil || s.transport == nil {
		return fmt.Errorf("%w: session needs an editor and a transport", domain.ErrValidation)
	}
	if docID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	if s.open {
		s.mu.Unlock()
		return fmt.Errorf("%w: session already open on %s", domain.ErrConflict, s.docID)
	}
	if err := s.transport.Emit(realtime.EventCreateRoom, docID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("join %s: %w", docID, err)
	}
	s.docID = docID
	s.open = true
	s.offs = []func(){
		s.transport.On(realtime.EventReceiveChanges, s.receiveChanges(docID)),
		s.transport.On(realtime.EventReceiveCursorMove, s.receiveCursor(docID)),
		s.editor.OnTextChange(s.localChange(docID)),
		s.editor.OnSelectionChange(s.localSelection(docID)),
	}
	s.cancel = context.AfterFunc(ctx, func() { s.Close() })
	s.mu.Unlock()

	s.logger.Debug("document session opened", "document_id", docID)
	return nil
}

// Close leaves the room and runs the unload hook. Safe to call repeatedly.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	docID := s.docID
	offs := s.offs
	cancel := s.cancel
	s.open = false
	s.offs = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, off := range offs {
		off()
	}
	s.opts.Debouncer.Stop()

	if err := s.transport.Emit(realtime.EventLeaveRoom, docID); err != nil && !errors.Is(err, ErrDisconnected) {
		s.logger.Warn("leave room failed", "document_id", docID, "error", err)
	}
	if s.opts.OnUnload != nil {
		s.opts.OnUnload(docID, s.editor.Contents())
	}
	s.logger.Debug("document session closed", "document_id", docID)
}

// Switch closes the current document and opens docID.
func (s *Session) Switch(ctx context.Context, docID string) error {
	s.Close()
	return s.Open(ctx, docID)
}

func (s *Session) localChange(docID string) TextChangeHandler {
	return func(change, _ *delta.Delta, source Source) {
		if source != SourceUser {
			return
		}
		s.opts.Debouncer.Touch()
		if err := s.transport.Emit(realtime.EventSendChanges, change, docID); err != nil {
			s.logger.Warn("send changes failed", "document_id", docID, "error", err)
		}
	}
}

func (s *Session) localSelection(docID string) SelectionChangeHandler {
	return func(r *Range, source Source) {
		if source != SourceUser {
			return
		}
		if err := s.transport.Emit(realtime.EventSendCursorMove, r, docID, s.opts.CursorID); err != nil {
			s.logger.Warn("send cursor failed", "document_id", docID, "error", err)
		}
	}
}

func (s *Session) receiveChanges(docID string) EventHandler {
	return func(args []json.RawMessage) {
		msg := realtime.Message{Event: realtime.EventReceiveChanges, Args: args}
		if msg.StringArg(realtime.RoomArg) != docID {
			return
		}
		change, err := delta.Parse(args[0])
		if err != nil {
			s.logger.Warn("invalid remote change", "document_id", docID, "error", err)
			return
		}
		s.editor.UpdateContents(change, SourceAPI)
	}
}

func (s *Session) receiveCursor(docID string) EventHandler {
	return func(args []json.RawMessage) {
		msg := realtime.Message{Event: realtime.EventReceiveCursorMove, Args: args}
		if len(args) < 3 || msg.StringArg(realtime.RoomArg) != docID {
			return
		}
		var r *Range
		if err := json.Unmarshal(args[0], &r); err != nil {
			s.logger.Warn("invalid cursor range", "document_id", docID, "error", err)
			return
		}
		cursorID := msg.StringArg(2)
		if !s.opts.Cursors.Move(cursorID, r) {
			s.logger.Debug("cursor move without overlay", "cursor_id", cursorID)
		}
	}
}
