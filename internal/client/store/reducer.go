package store

import (
	"errors"
	"fmt"
	"slices"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

// ErrUnknownAction is returned for an action type Reduce does not handle.
var ErrUnknownAction = errors.New("unknown action")

// Reduce returns the state after applying a. It never mutates s: changed
// slices are copied, untouched subtrees are shared.
//
// On error the returned state is s unchanged. A missing target wraps
// domain.ErrNotFound; adding an id already present wraps domain.ErrConflict.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case SetWorkspaces:
		return State{Workspaces: slices.Clone(a.Workspaces)}, nil

	case AddWorkspace:
		if indexWorkspace(s.Workspaces, a.Workspace.ID) >= 0 {
			return s, conflict("workspace", a.Workspace.ID)
		}
		return State{Workspaces: append(slices.Clip(s.Workspaces), a.Workspace)}, nil

	case DeleteWorkspace:
		i := indexWorkspace(s.Workspaces, a.WorkspaceID)
		if i < 0 {
			return s, notFound("workspace", a.WorkspaceID)
		}
		return State{Workspaces: slices.Concat(s.Workspaces[:i], s.Workspaces[i+1:])}, nil

	case UpdateWorkspace:
		return s.withWorkspace(a.WorkspaceID, func(w WorkspaceNode) (WorkspaceNode, error) {
			w.Workspace = a.Patch.Apply(w.Workspace)
			return w, nil
		})

	case SetFolders:
		return s.withWorkspace(a.WorkspaceID, func(w WorkspaceNode) (WorkspaceNode, error) {
			w.Folders = sortFolders(slices.Clone(a.Folders))
			return w, nil
		})

	case AddFolder:
		return s.withWorkspace(a.WorkspaceID, func(w WorkspaceNode) (WorkspaceNode, error) {
			if indexFolder(w.Folders, a.Folder.ID) >= 0 {
				return w, conflict("folder", a.Folder.ID)
			}
			w.Folders = sortFolders(append(slices.Clip(w.Folders), a.Folder))
			return w, nil
		})

	case UpdateFolder:
		return s.withFolder(a.WorkspaceID, a.FolderID, func(f FolderNode) (FolderNode, error) {
			f.Folder = a.Patch.Apply(f.Folder)
			return f, nil
		})

	case DeleteFolder:
		return s.withWorkspace(a.WorkspaceID, func(w WorkspaceNode) (WorkspaceNode, error) {
			i := indexFolder(w.Folders, a.FolderID)
			if i < 0 {
				return w, notFound("folder", a.FolderID)
			}
			w.Folders = slices.Concat(w.Folders[:i], w.Folders[i+1:])
			return w, nil
		})

	case SetFiles:
		return s.withFolder(a.WorkspaceID, a.FolderID, func(f FolderNode) (FolderNode, error) {
			f.Files = sortFiles(slices.Clone(a.Files))
			return f, nil
		})

	case AddFile:
		return s.withFolder(a.WorkspaceID, a.FolderID, func(f FolderNode) (FolderNode, error) {
			if indexFile(f.Files, a.File.ID) >= 0 {
				return f, conflict("file", a.File.ID)
			}
			f.Files = sortFiles(append(slices.Clip(f.Files), a.File))
			return f, nil
		})

	case UpdateFile:
		return s.withFolder(a.WorkspaceID, a.FolderID, func(f FolderNode) (FolderNode, error) {
			i := indexFile(f.Files, a.FileID)
			if i < 0 {
				return f, notFound("file", a.FileID)
			}
			files := slices.Clone(f.Files)
			files[i] = a.Patch.Apply(files[i])
			f.Files = files
			return f, nil
		})

	case DeleteFile:
		return s.withFolder(a.WorkspaceID, a.FolderID, func(f FolderNode) (FolderNode, error) {
			i := indexFile(f.Files, a.FileID)
			if i < 0 {
				return f, notFound("file", a.FileID)
			}
			f.Files = slices.Concat(f.Files[:i], f.Files[i+1:])
			return f, nil
		})

	default:
		if a == nil {
			return s, fmt.Errorf("%w: nil", ErrUnknownAction)
		}
		return s, fmt.Errorf("%w: %s", ErrUnknownAction, a.Type())
	}
}

// withWorkspace replaces one workspace with fn's result.
func (s State) withWorkspace(id string, fn func(WorkspaceNode) (WorkspaceNode, error)) (State, error) {
	i := indexWorkspace(s.Workspaces, id)
	if i < 0 {
		return s, notFound("workspace", id)
	}
	updated, err := fn(s.Workspaces[i])
	if err != nil {
		return s, err
	}
	workspaces := slices.Clone(s.Workspaces)
	workspaces[i] = updated
	return State{Workspaces: workspaces}, nil
}

// withFolder replaces one folder of one workspace with fn's result.
func (s State) withFolder(workspaceID, folderID string, fn func(FolderNode) (FolderNode, error)) (State, error) {
	return s.withWorkspace(workspaceID, func(w WorkspaceNode) (WorkspaceNode, error) {
		i := indexFolder(w.Folders, folderID)
		if i < 0 {
			return w, notFound("folder", folderID)
		}
		updated, err := fn(w.Folders[i])
		if err != nil {
			return w, err
		}
		folders := slices.Clone(w.Folders)
		folders[i] = updated
		w.Folders = folders
		return w, nil
	})
}

func indexWorkspace(workspaces []WorkspaceNode, id string) int {
	return slices.IndexFunc(workspaces, func(w WorkspaceNode) bool { return w.ID == id })
}

func indexFolder(folders []FolderNode, id string) int {
	return slices.IndexFunc(folders, func(f FolderNode) bool { return f.ID == id })
}

func indexFile(files []models.File, id string) int {
	return slices.IndexFunc(files, func(f models.File) bool { return f.ID == id })
}

// sortFolders orders by CreatedAt ascending; equal timestamps keep their order.
func sortFolders(folders []FolderNode) []FolderNode {
	slices.SortStableFunc(folders, func(a, b FolderNode) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return folders
}

func sortFiles(files []models.File) []models.File {
	slices.SortStableFunc(files, func(a, b models.File) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return files
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

func conflict(kind, id string) error {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s %s already exists", kind, id),
		ResourceType: kind,
		ResourceID:   id,
	}
}
