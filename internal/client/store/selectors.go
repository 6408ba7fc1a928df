package store

import (
	"strings"

	models "loomspace/internal/domain/models/workspace"
)

// VisibleWorkspaces drops workspaces marked in_trash.
func VisibleWorkspaces(s State) []WorkspaceNode {
	return filter(s.Workspaces, func(w WorkspaceNode) bool { return !w.IsTrashed() })
}

// VisibleFolders drops trashed folders of one workspace.
func VisibleFolders(s State, workspaceID string) []FolderNode {
	w, ok := FindWorkspace(s, workspaceID)
	if !ok {
		return nil
	}
	return filter(w.Folders, func(f FolderNode) bool { return !f.IsTrashed() })
}

// VisibleFiles drops trashed files of one folder.
func VisibleFiles(s State, workspaceID, folderID string) []models.File {
	f, ok := FindFolder(s, workspaceID, folderID)
	if !ok {
		return nil
	}
	return filter(f.Files, func(file models.File) bool { return !file.IsTrashed() })
}

// TrashedFolders lists the workspace's folders marked in_trash.
func TrashedFolders(s State, workspaceID string) []FolderNode {
	w, ok := FindWorkspace(s, workspaceID)
	if !ok {
		return nil
	}
	return filter(w.Folders, func(f FolderNode) bool { return f.IsTrashed() })
}

// TrashedFiles lists trashed files across every loaded folder of the workspace.
func TrashedFiles(s State, workspaceID string) []models.File {
	w, ok := FindWorkspace(s, workspaceID)
	if !ok {
		return nil
	}
	var out []models.File
	for _, f := range w.Folders {
		out = append(out, filter(f.Files, func(file models.File) bool { return file.IsTrashed() })...)
	}
	return out
}

func FindWorkspace(s State, id string) (WorkspaceNode, bool) {
	if i := indexWorkspace(s.Workspaces, id); i >= 0 {
		return s.Workspaces[i], true
	}
	return WorkspaceNode{}, false
}

func FindFolder(s State, workspaceID, folderID string) (FolderNode, bool) {
	w, ok := FindWorkspace(s, workspaceID)
	if !ok {
		return FolderNode{}, false
	}
	if i := indexFolder(w.Folders, folderID); i >= 0 {
		return w.Folders[i], true
	}
	return FolderNode{}, false
}

func FindFile(s State, workspaceID, folderID, fileID string) (models.File, bool) {
	f, ok := FindFolder(s, workspaceID, folderID)
	if !ok {
		return models.File{}, false
	}
	if i := indexFile(f.Files, fileID); i >= 0 {
		return f.Files[i], true
	}
	return models.File{}, false
}

// Breadcrumb renders "icon title / icon title / icon title" for the location,
// skipping levels not present in the state.
func Breadcrumb(s State, loc Location) string {
	w, ok := FindWorkspace(s, loc.WorkspaceID)
	if !ok {
		return ""
	}
	parts := []string{crumb(w.IconID, w.Title)}

	if loc.FolderID != "" {
		if f, ok := FindFolder(s, loc.WorkspaceID, loc.FolderID); ok {
			parts = append(parts, crumb(f.IconID, f.Title))
			if loc.FileID != "" {
				if file, ok := FindFile(s, loc.WorkspaceID, loc.FolderID, loc.FileID); ok {
					parts = append(parts, crumb(file.IconID, file.Title))
				}
			}
		}
	}
	return strings.Join(parts, " / ")
}

func crumb(icon, title string) string {
	return strings.TrimSpace(icon + " " + title)
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
