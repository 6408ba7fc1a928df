package store

import (
	"context"
	"log/slog"
	"sync"

	models "loomspace/internal/domain/models/workspace"
)

// FileLister fetches a folder's files for lazy loading on navigation.
type FileLister interface {
	GetFiles(ctx context.Context, folderID string) models.Result[[]models.File]
}

// Store holds the current State. Dispatches are serialized and applied in the
// order they are issued; readers get immutable snapshots.
type Store struct {
	dispatchMu sync.Mutex // serializes Dispatch and subscriber notification

	mu          sync.RWMutex
	state       State
	location    Location
	subscribers map[int]func(State)
	nextSubID   int

	files  FileLister
	logger *slog.Logger
}

// New creates an empty store. files may be nil, which disables lazy file loading.
func New(files FileLister, logger *slog.Logger) *Store {
	return &Store{
		subscribers: make(map[int]func(State)),
		files:       files,
		logger:      logger,
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Location returns the location last passed to Navigate
func (s *Store) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// Dispatch reduces a onto the current state and notifies subscribers.
// A rejected action leaves the state untouched and returns Reduce's error.
// Subscribers run on the dispatching goroutine and must not call Dispatch.
func (s *Store) Dispatch(a Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next, err := Reduce(s.state, a)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("action rejected", "error", err)
		return err
	}
	s.state = next
	subscribers := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("state changed", "action", a.Type(), "workspaces", len(next.Workspaces))
	for _, fn := range subscribers {
		fn(next)
	}
	return nil
}

// Subscribe registers fn for every state change. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Navigate records the location derived from path. When the active folder
// changes to a non-empty id its files are fetched and loaded with SetFiles.
// Fetch failures are logged and leave the state alone.
func (s *Store) Navigate(ctx context.Context, path string) Location {
	loc := ParseLocation(path)

	s.mu.Lock()
	prev := s.location
	s.location = loc
	s.mu.Unlock()

	if loc.WorkspaceID == "" || loc.FolderID == "" {
		return loc
	}
	if loc.WorkspaceID == prev.WorkspaceID && loc.FolderID == prev.FolderID {
		return loc
	}
	s.loadFiles(ctx, loc.WorkspaceID, loc.FolderID)
	return loc
}

func (s *Store) loadFiles(ctx context.Context, workspaceID, folderID string) {
	if s.files == nil {
		return
	}

	res := s.files.GetFiles(ctx, folderID)
	if res.Failed() {
		s.logger.Warn("failed to load files", "folder_id", folderID, "error", res.Cause())
	}
	if res.Data == nil {
		return
	}

	if err := s.Dispatch(SetFiles{WorkspaceID: workspaceID, FolderID: folderID, Files: res.Data}); err != nil {
		s.logger.Debug("loaded files for folder not in state", "folder_id", folderID, "error", err)
	}
}
