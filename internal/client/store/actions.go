package store

import (
	models "loomspace/internal/domain/models/workspace"
)

// ActionType names an action
type ActionType string

const (
	ActionSetWorkspaces   ActionType = "SET_WORKSPACES"
	ActionAddWorkspace    ActionType = "ADD_WORKSPACE"
	ActionDeleteWorkspace ActionType = "DELETE_WORKSPACE"
	ActionUpdateWorkspace ActionType = "UPDATE_WORKSPACE"
	ActionSetFolders      ActionType = "SET_FOLDERS"
	ActionAddFolder       ActionType = "ADD_FOLDER"
	ActionUpdateFolder    ActionType = "UPDATE_FOLDER"
	ActionDeleteFolder    ActionType = "DELETE_FOLDER"
	ActionSetFiles        ActionType = "SET_FILES"
	ActionAddFile         ActionType = "ADD_FILE"
	ActionUpdateFile      ActionType = "UPDATE_FILE"
	ActionDeleteFile      ActionType = "DELETE_FILE"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	Type() ActionType
}

// SetWorkspaces replaces the whole workspace collection (initial load).
type SetWorkspaces struct {
	Workspaces []WorkspaceNode
}

type AddWorkspace struct {
	Workspace WorkspaceNode
}

type DeleteWorkspace struct {
	WorkspaceID string
}

// UpdateWorkspace patches the named fields of one workspace.
type UpdateWorkspace struct {
	WorkspaceID string
	Patch       models.WorkspacePatch
}

// SetFolders replaces one workspace's folders.
type SetFolders struct {
	WorkspaceID string
	Folders     []FolderNode
}

type AddFolder struct {
	WorkspaceID string
	Folder      FolderNode
}

type UpdateFolder struct {
	WorkspaceID string
	FolderID    string
	Patch       models.FolderPatch
}

type DeleteFolder struct {
	WorkspaceID string
	FolderID    string
}

// SetFiles replaces one folder's files.
type SetFiles struct {
	WorkspaceID string
	FolderID    string
	Files       []models.File
}

type AddFile struct {
	WorkspaceID string
	FolderID    string
	File        models.File
}

type UpdateFile struct {
	WorkspaceID string
	FolderID    string
	FileID      string
	Patch       models.FilePatch
}

type DeleteFile struct {
	WorkspaceID string
	FolderID    string
	FileID      string
}

func (SetWorkspaces) Type() ActionType   { return ActionSetWorkspaces }
func (AddWorkspace) Type() ActionType    { return ActionAddWorkspace }
func (DeleteWorkspace) Type() ActionType { return ActionDeleteWorkspace }
func (UpdateWorkspace) Type() ActionType { return ActionUpdateWorkspace }
func (SetFolders) Type() ActionType      { return ActionSetFolders }
func (AddFolder) Type() ActionType       { return ActionAddFolder }
func (UpdateFolder) Type() ActionType    { return ActionUpdateFolder }
func (DeleteFolder) Type() ActionType    { return ActionDeleteFolder }
func (SetFiles) Type() ActionType        { return ActionSetFiles }
func (AddFile) Type() ActionType         { return ActionAddFile }
func (UpdateFile) Type() ActionType      { return ActionUpdateFile }
func (DeleteFile) Type() ActionType      { return ActionDeleteFile }
