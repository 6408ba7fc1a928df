// Package store is the client-side projection of a user's workspaces, folders
// and files. State changes only through Reduce, applied by a single-writer Store.
package store

import (
	"slices"
	"strings"

	models "loomspace/internal/domain/models/workspace"
)

// State is the whole tree. Values are never mutated after they are published;
// Reduce copies the path it changes and shares the rest.
type State struct {
	Workspaces []WorkspaceNode `json:"workspaces"`
}

// WorkspaceNode is a workspace and the folders it owns.
type WorkspaceNode struct {
	models.Workspace
	Folders []FolderNode `json:"folders"`
}

// FolderNode is a folder and the files it owns.
type FolderNode struct {
	models.Folder
	Files []models.File `json:"files"`
}

// NewWorkspaceNode wraps a workspace with no folders loaded
func NewWorkspaceNode(w models.Workspace) WorkspaceNode {
	return WorkspaceNode{Workspace: w}
}

// NewFolderNode wraps a folder with no files loaded
func NewFolderNode(f models.Folder) FolderNode {
	return FolderNode{Folder: f}
}

// Location is the workspace/folder/file the user is looking at, derived from
// a path of the form /dashboard/{workspaceId}/{folderId}/{fileId}.
type Location struct {
	WorkspaceID string
	FolderID    string
	FileID      string
}

// ParseLocation derives the active ids from path segments 1, 2 and 3.
// Missing segments leave the id empty.
func ParseLocation(path string) Location {
	segments := slices.DeleteFunc(strings.Split(path, "/"), func(s string) bool { return s == "" })

	var loc Location
	if len(segments) > 1 {
		loc.WorkspaceID = segments[1]
	}
	if len(segments) > 2 {
		loc.FolderID = segments[2]
	}
	if len(segments) > 3 {
		loc.FileID = segments[3]
	}
	return loc
}

// Path renders the location back into a dashboard path
func (l Location) Path() string {
	parts := []string{"/dashboard"}
	for _, id := range []string{l.WorkspaceID, l.FolderID, l.FileID} {
		if id == "" {
			break
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "/")
}
