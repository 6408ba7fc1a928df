package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"

	"github.com/google/uuid"
)

// Persistence is the backing store the Mutator writes through. Implemented by
// the HTTP client and by the in-process service scope.
type Persistence interface {
	FileLister

	CreateWorkspace(ctx context.Context, ws models.Workspace) models.Result[*models.Workspace]
	UpdateWorkspace(ctx context.Context, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace]
	DeleteWorkspace(ctx context.Context, workspaceID string) models.Result[*models.Workspace]

	CreateFolder(ctx context.Context, folder models.Folder) models.Result[*models.Folder]
	UpdateFolder(ctx context.Context, folderID string, patch models.FolderPatch) models.Result[*models.Folder]
	DeleteFolder(ctx context.Context, folderID string) models.Result[*models.Folder]

	CreateFile(ctx context.Context, file models.File) models.Result[*models.File]
	UpdateFile(ctx context.Context, fileID string, patch models.FilePatch) models.Result[*models.File]
	DeleteFile(ctx context.Context, fileID string) models.Result[*models.File]
}

// Mutator applies a change to the store first, then writes it through. When
// the write fails it dispatches a compensating action that restores the state
// captured before the change.
type Mutator struct {
	store       *Store
	persistence Persistence
	now         func() time.Time
	logger      *slog.Logger
}

func NewMutator(store *Store, persistence Persistence, logger *slog.Logger) *Mutator {
	return &Mutator{
		store:       store,
		persistence: persistence,
		now:         time.Now,
		logger:      logger,
	}
}

// optimistic dispatches a and reports whether it was applied. A conflict is
// returned as an error; other rejections (e.g. the parent is not loaded) only
// mean there is nothing to compensate later.
func (m *Mutator) optimistic(a Action) (bool, error) {
	err := m.store.Dispatch(a)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrConflict):
		return false, err
	default:
		return false, nil
	}
}

func (m *Mutator) compensate(op string, undo Action, cause error) {
	if err := m.store.Dispatch(undo); err != nil {
		m.logger.Error("rollback failed", "op", op, "error", err, "cause", cause)
		return
	}
	m.logger.Warn("write failed, local change rolled back", "op", op, "cause", cause)
}

func (m *Mutator) stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = m.now().UTC()
	}
}

// CreateWorkspace adds ws (with a fresh id and timestamp when unset) and persists it.
func (m *Mutator) CreateWorkspace(ctx context.Context, ws models.Workspace) models.Result[*models.Workspace] {
	m.stamp(&ws.ID, &ws.CreatedAt)
	applied, err := m.optimistic(AddWorkspace{Workspace: NewWorkspaceNode(ws)})
	if err != nil {
		return models.Fail[*models.Workspace](err)
	}

	res := m.persistence.CreateWorkspace(ctx, ws)
	if res.Failed() && applied {
		m.compensate("create workspace", DeleteWorkspace{WorkspaceID: ws.ID}, res.Cause())
	}
	return res
}

// UpdateWorkspace patches the workspace locally and persists the patch.
func (m *Mutator) UpdateWorkspace(ctx context.Context, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace] {
	var restore models.WorkspacePatch
	applied := false
	if current, ok := FindWorkspace(m.store.State(), workspaceID); ok {
		restore = patch.Capture(current.Workspace)
		applied, _ = m.optimistic(UpdateWorkspace{WorkspaceID: workspaceID, Patch: patch})
	}

	res := m.persistence.UpdateWorkspace(ctx, workspaceID, patch)
	if res.Failed() && applied {
		m.compensate("update workspace", UpdateWorkspace{WorkspaceID: workspaceID, Patch: restore}, res.Cause())
	}
	return res
}

// DeleteWorkspace removes the workspace and everything under it.
func (m *Mutator) DeleteWorkspace(ctx context.Context, workspaceID string) models.Result[*models.Workspace] {
	snapshot, found := FindWorkspace(m.store.State(), workspaceID)
	applied := false
	if found {
		applied, _ = m.optimistic(DeleteWorkspace{WorkspaceID: workspaceID})
	}

	res := m.persistence.DeleteWorkspace(ctx, workspaceID)
	if res.Failed() && applied {
		m.compensate("delete workspace", AddWorkspace{Workspace: snapshot}, res.Cause())
	}
	return res
}

func (m *Mutator) CreateFolder(ctx context.Context, folder models.Folder) models.Result[*models.Folder] {
	m.stamp(&folder.ID, &folder.CreatedAt)
	applied, err := m.optimistic(AddFolder{WorkspaceID: folder.WorkspaceID, Folder: NewFolderNode(folder)})
	if err != nil {
		return models.Fail[*models.Folder](err)
	}

	res := m.persistence.CreateFolder(ctx, folder)
	if res.Failed() && applied {
		m.compensate("create folder", DeleteFolder{WorkspaceID: folder.WorkspaceID, FolderID: folder.ID}, res.Cause())
	}
	return res
}

func (m *Mutator) UpdateFolder(ctx context.Context, workspaceID, folderID string, patch models.FolderPatch) models.Result[*models.Folder] {
	var restore models.FolderPatch
	applied := false
	if current, ok := FindFolder(m.store.State(), workspaceID, folderID); ok {
		restore = patch.Capture(current.Folder)
		applied, _ = m.optimistic(UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: patch})
	}

	res := m.persistence.UpdateFolder(ctx, folderID, patch)
	if res.Failed() && applied {
		m.compensate("update folder", UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: restore}, res.Cause())
	}
	return res
}

// DeleteFolder hard-deletes the folder and its files.
func (m *Mutator) DeleteFolder(ctx context.Context, workspaceID, folderID string) models.Result[*models.Folder] {
	snapshot, found := FindFolder(m.store.State(), workspaceID, folderID)
	applied := false
	if found {
		applied, _ = m.optimistic(DeleteFolder{WorkspaceID: workspaceID, FolderID: folderID})
	}

	res := m.persistence.DeleteFolder(ctx, folderID)
	if res.Failed() && applied {
		m.compensate("delete folder", AddFolder{WorkspaceID: workspaceID, Folder: snapshot}, res.Cause())
	}
	return res
}

func (m *Mutator) CreateFile(ctx context.Context, file models.File) models.Result[*models.File] {
	m.stamp(&file.ID, &file.CreatedAt)
	applied, err := m.optimistic(AddFile{WorkspaceID: file.WorkspaceID, FolderID: file.FolderID, File: file})
	if err != nil {
		return models.Fail[*models.File](err)
	}

	res := m.persistence.CreateFile(ctx, file)
	if res.Failed() && applied {
		m.compensate("create file", DeleteFile{WorkspaceID: file.WorkspaceID, FolderID: file.FolderID, FileID: file.ID}, res.Cause())
	}
	return res
}

func (m *Mutator) UpdateFile(ctx context.Context, workspaceID, folderID, fileID string, patch models.FilePatch) models.Result[*models.File] {
	var restore models.FilePatch
	applied := false
	if current, ok := FindFile(m.store.State(), workspaceID, folderID, fileID); ok {
		restore = patch.Capture(current)
		applied, _ = m.optimistic(UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: patch})
	}

	res := m.persistence.UpdateFile(ctx, fileID, patch)
	if res.Failed() && applied {
		m.compensate("update file", UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: restore}, res.Cause())
	}
	return res
}

func (m *Mutator) DeleteFile(ctx context.Context, workspaceID, folderID, fileID string) models.Result[*models.File] {
	snapshot, found := FindFile(m.store.State(), workspaceID, folderID, fileID)
	applied := false
	if found {
		applied, _ = m.optimistic(DeleteFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID})
	}

	res := m.persistence.DeleteFile(ctx, fileID)
	if res.Failed() && applied {
		m.compensate("delete file", AddFile{WorkspaceID: workspaceID, FolderID: folderID, File: snapshot}, res.Cause())
	}
	return res
}

// TrashFolder soft-deletes a folder, recording who deleted it.
func (m *Mutator) TrashFolder(ctx context.Context, workspaceID, folderID, email string) models.Result[*models.Folder] {
	return m.UpdateFolder(ctx, workspaceID, folderID, models.FolderPatch{InTrash: models.Set(models.TrashReason(email))})
}

// RestoreFolder clears a folder's trash marker.
func (m *Mutator) RestoreFolder(ctx context.Context, workspaceID, folderID string) models.Result[*models.Folder] {
	return m.UpdateFolder(ctx, workspaceID, folderID, models.FolderPatch{InTrash: models.Set("")})
}

// TrashFile soft-deletes a file, recording who deleted it.
func (m *Mutator) TrashFile(ctx context.Context, workspaceID, folderID, fileID, email string) models.Result[*models.File] {
	return m.UpdateFile(ctx, workspaceID, folderID, fileID, models.FilePatch{InTrash: models.Set(models.TrashReason(email))})
}

// RestoreFile clears a file's trash marker.
func (m *Mutator) RestoreFile(ctx context.Context, workspaceID, folderID, fileID string) models.Result[*models.File] {
	return m.UpdateFile(ctx, workspaceID, folderID, fileID, models.FilePatch{InTrash: models.Set("")})
}
