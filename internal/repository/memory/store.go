// Package memory is an in-process implementation of the workspace repositories.
// It backs the server when STORAGE_BACKEND=memory and the service, handler and
// client tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/domain/repositories"
	wsRepo "loomspace/internal/domain/repositories/workspace"

	"github.com/google/uuid"
)

// Store holds every table. Repositories returned by its accessors share it.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	workspaces    map[string]row[models.Workspace]
	folders       map[string]row[models.Folder]
	files         map[string]row[models.File]
	collaborators map[string]map[string]row[models.Collaborator] // workspace -> user
	users         map[string]models.User

	txMu sync.Mutex
}

// row keeps insertion order so equal timestamps sort stably.
type row[T any] struct {
	value T
	seq   int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:           func() time.Time { return time.Now().UTC() },
		workspaces:    map[string]row[models.Workspace]{},
		folders:       map[string]row[models.Folder]{},
		files:         map[string]row[models.File]{},
		collaborators: map[string]map[string]row[models.Collaborator]{},
		users:         map[string]models.User{},
	}
}

func (s *Store) Workspaces() wsRepo.WorkspaceRepository       { return workspaceRepo{s} }
func (s *Store) Folders() wsRepo.FolderRepository             { return folderRepo{s} }
func (s *Store) Files() wsRepo.FileRepository                 { return fileRepo{s} }
func (s *Store) Collaborators() wsRepo.CollaboratorRepository { return collaboratorRepo{s} }
func (s *Store) Users() wsRepo.UserRepository                 { return userRepo{s} }
func (s *Store) TxManager() repositories.TransactionManager   { return txManager{s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// stamp fills a generated id and creation time. Caller holds mu.
func (s *Store) stamp(id *string, createdAt *time.Time, kind string) error {
	if *id == "" {
		*id = uuid.NewString()
	} else if err := uuid.Validate(*id); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid %s id %q", kind, *id)}
	}
	if createdAt.IsZero() {
		*createdAt = s.now()
	}
	return nil
}

func notFound(kind, id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", kind, id)}
}

func duplicate(kind, id string) error {
	return &domain.ConflictError{Message: fmt.Sprintf("%s %s already exists", kind, id), ResourceType: kind, ResourceID: id}
}

func stillReferenced(kind, id, children string) error {
	return &domain.ValidationError{Message: fmt.Sprintf("%s %s still has %s", kind, id, children)}
}

func missingParent(kind, id string) error {
	return &domain.ValidationError{Message: fmt.Sprintf("referenced %s %s does not exist", kind, id)}
}

// sorted returns the values ordered by created_at, then insertion.
func sorted[T any](rows []row[T], createdAt func(T) time.Time) []T {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := createdAt(rows[i].value), createdAt(rows[j].value)
		if a.Equal(b) {
			return rows[i].seq < rows[j].seq
		}
		return a.Before(b)
	})
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.value)
	}
	return out
}

func wsCreated(w models.Workspace) time.Time { return w.CreatedAt }
func folderCreated(f models.Folder) time.Time { return f.CreatedAt }
func fileCreated(f models.File) time.Time     { return f.CreatedAt }

type snapshot struct {
	workspaces    map[string]row[models.Workspace]
	folders       map[string]row[models.Folder]
	files         map[string]row[models.File]
	collaborators map[string]map[string]row[models.Collaborator]
	users         map[string]models.User
}

func (s *Store) capture() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collaborators := make(map[string]map[string]row[models.Collaborator], len(s.collaborators))
	for ws, members := range s.collaborators {
		collaborators[ws] = cloneMap(members)
	}
	return snapshot{
		workspaces:    cloneMap(s.workspaces),
		folders:       cloneMap(s.folders),
		files:         cloneMap(s.files),
		collaborators: collaborators,
		users:         cloneMap(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = snap.workspaces
	s.folders = snap.folders
	s.files = snap.files
	s.collaborators = snap.collaborators
	s.users = snap.users
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txKey struct{}

// txManager serialises transactions and rolls back to a snapshot on error.
// Writes outside a transaction are not isolated from one in progress.
type txManager struct{ s *Store }

func (t txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.capture()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
