package docsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"loomspace/internal/client/store"
	"loomspace/internal/delta"
	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

// Kind is the entity a document body belongs to.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindFolder    Kind = "folder"
	KindFile      Kind = "file"
)

// Target locates an entity whose data field is edited as a document.
type Target struct {
	Kind        Kind
	WorkspaceID string
	FolderID    string
	FileID      string
}

// DocumentID is the room name: the id of the innermost entity.
func (t Target) DocumentID() string {
	switch t.Kind {
	case KindFile:
		return t.FileID
	case KindFolder:
		return t.FolderID
	default:
		return t.WorkspaceID
	}
}

// TargetFor picks the document shown at loc. ok is false when loc is empty.
func TargetFor(loc store.Location) (Target, bool) {
	switch {
	case loc.FileID != "":
		return Target{Kind: KindFile, WorkspaceID: loc.WorkspaceID, FolderID: loc.FolderID, FileID: loc.FileID}, true
	case loc.FolderID != "":
		return Target{Kind: KindFolder, WorkspaceID: loc.WorkspaceID, FolderID: loc.FolderID}, true
	case loc.WorkspaceID != "":
		return Target{Kind: KindWorkspace, WorkspaceID: loc.WorkspaceID}, true
	default:
		return Target{}, false
	}
}

// DetailsSource fetches a single entity with its data.
type DetailsSource interface {
	GetWorkspaceDetails(ctx context.Context, workspaceID string) models.Result[*models.Workspace]
	GetFolderDetails(ctx context.Context, folderID string) models.Result[*models.Folder]
	GetFileDetails(ctx context.Context, fileID string) models.Result[*models.File]
}

// Loader moves document bodies across the persistence boundary: Load when a
// document is opened, Save when its session unloads.
type Loader struct {
	details DetailsSource
	store   *store.Store
	mutator *store.Mutator
	logger  *slog.Logger

	mu     sync.Mutex
	loaded map[string]Target
}

func NewLoader(details DetailsSource, s *store.Store, mutator *store.Mutator, logger *slog.Logger) *Loader {
	return &Loader{
		details: details,
		store:   s,
		mutator: mutator,
		logger:  logger,
		loaded:  make(map[string]Target),
	}
}

// Load fetches the target's data, puts it in the editor and records it in the store.
func (l *Loader) Load(ctx context.Context, target Target, editor Editor) error {
	if editor == nil {
		return fmt.Errorf("%w: editor is required", domain.ErrValidation)
	}

	data, err := l.fetch(ctx, target)
	if err != nil {
		return err
	}

	doc := delta.New()
	if data != nil {
		if doc, err = delta.Parse([]byte(*data)); err != nil {
			return fmt.Errorf("load %s %s: %w", target.Kind, target.DocumentID(), err)
		}
	}
	editor.SetContents(doc, SourceAPI)

	l.mu.Lock()
	l.loaded[target.DocumentID()] = target
	l.mu.Unlock()

	// The entity may not be in the tree yet (deep link before the listing);
	// the editor still has the body.
	if err := l.store.Dispatch(dataAction(target, data)); err != nil {
		l.logger.Debug("loaded document not in store", "document_id", target.DocumentID(), "error", err)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, target Target) (*string, error) {
	var (
		data *string
		err  error
	)
	switch target.Kind {
	case KindWorkspace:
		data, err = dataOf(l.details.GetWorkspaceDetails(ctx, target.WorkspaceID), func(w *models.Workspace) *string { return w.Data })
	case KindFolder:
		data, err = dataOf(l.details.GetFolderDetails(ctx, target.FolderID), func(f *models.Folder) *string { return f.Data })
	case KindFile:
		data, err = dataOf(l.details.GetFileDetails(ctx, target.FileID), func(f *models.File) *string { return f.Data })
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrValidation, target.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", target.Kind, target.DocumentID(), err)
	}
	return data, nil
}

func dataOf[T any](res models.Result[*T], data func(*T) *string) (*string, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, nil
	}
	return data(res.Data), nil
}

// Save writes doc as the target's data through the mutator.
func (l *Loader) Save(ctx context.Context, target Target, doc *delta.Delta) error {
	if doc == nil {
		doc = delta.New()
	}
	body := doc.String()

	var err error
	switch target.Kind {
	case KindWorkspace:
		err = l.mutator.UpdateWorkspace(ctx, target.WorkspaceID, models.WorkspacePatch{Data: models.Set(body)}).Err()
	case KindFolder:
		err = l.mutator.UpdateFolder(ctx, target.WorkspaceID, target.FolderID, models.FolderPatch{Data: models.Set(body)}).Err()
	case KindFile:
		err = l.mutator.UpdateFile(ctx, target.WorkspaceID, target.FolderID, target.FileID, models.FilePatch{Data: models.Set(body)}).Err()
	default:
		return fmt.Errorf("%w: unknown document kind %q", domain.ErrValidation, target.Kind)
	}
	if err != nil {
		return fmt.Errorf("save %s %s: %w", target.Kind, target.DocumentID(), err)
	}
	return nil
}

// UnloadHook returns a Session unload hook that saves documents this loader
// loaded. The write outlives ctx's cancellation so closing on shutdown still saves.
func (l *Loader) UnloadHook(ctx context.Context) UnloadFunc {
	ctx = context.WithoutCancel(ctx)
	return func(docID string, doc *delta.Delta) {
		l.mu.Lock()
		target, ok := l.loaded[docID]
		delete(l.loaded, docID)
		l.mu.Unlock()
		if !ok {
			l.logger.Warn("unloading document that was never loaded", "document_id", docID)
			return
		}
		if err := l.Save(ctx, target, doc); err != nil {
			l.logger.Error("save on unload failed", "document_id", docID, "error", err)
		}
	}
}

func dataAction(target Target, data *string) store.Action {
	value := models.Null()
	if data != nil {
		value = models.Set(*data)
	}
	switch target.Kind {
	case KindWorkspace:
		return store.UpdateWorkspace{WorkspaceID: target.WorkspaceID, Patch: models.WorkspacePatch{Data: value}}
	case KindFolder:
		return store.UpdateFolder{WorkspaceID: target.WorkspaceID, FolderID: target.FolderID, Patch: models.FolderPatch{Data: value}}
	default:
		return store.UpdateFile{WorkspaceID: target.WorkspaceID, FolderID: target.FolderID, FileID: target.FileID, Patch: models.FilePatch{Data: value}}
	}
}
