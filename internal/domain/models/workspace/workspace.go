package workspace

import (
	"time"
)

// Workspace is the top-level container owned by one user and shareable with collaborators.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"workspace_owner" db:"workspace_owner"`
	Title     string    `json:"title" db:"title"`
	IconID    string    `json:"icon_id" db:"icon_id"`
	Data      *string   `json:"data" db:"data"`         // Serialized document body
	InTrash   *string   `json:"in_trash" db:"in_trash"` // Non-empty = soft-deleted, holds the reason
	BannerURL *string   `json:"banner_url" db:"banner_url"`
	Logo      *string   `json:"logo" db:"logo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Folder groups files inside a workspace.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Title       string    `json:"title" db:"title"`
	IconID      string    `json:"icon_id" db:"icon_id"`
	Data        *string   `json:"data" db:"data"`
	InTrash     *string   `json:"in_trash" db:"in_trash"`
	BannerURL   *string   `json:"banner_url" db:"banner_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// File is a leaf document. WorkspaceID is a denormalized back-reference.
type File struct {
	ID          string    `json:"id" db:"id"`
	FolderID    string    `json:"folder_id" db:"folder_id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Title       string    `json:"title" db:"title"`
	IconID      string    `json:"icon_id" db:"icon_id"`
	Data        *string   `json:"data" db:"data"`
	InTrash     *string   `json:"in_trash" db:"in_trash"`
	BannerURL   *string   `json:"banner_url" db:"banner_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Collaborator links a user to a workspace they do not own.
type Collaborator struct {
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// User is the profile mirror of an account on the auth platform.
type User struct {
	ID        string  `json:"id" db:"id"`
	Email     string  `json:"email" db:"email"`
	FullName  *string `json:"full_name" db:"full_name"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

// Listing groups the workspaces visible to one user.
type Listing struct {
	Private       []Workspace `json:"private"`       // Owned, no collaborators
	Shared        []Workspace `json:"shared"`        // Owned, with collaborators
	Collaborating []Workspace `json:"collaborating"` // Owned by someone else
}

// All returns every workspace in the listing, private first.
func (l *Listing) All() []Workspace {
	all := make([]Workspace, 0, len(l.Private)+len(l.Shared)+len(l.Collaborating))
	all = append(all, l.Private...)
	all = append(all, l.Shared...)
	return append(all, l.Collaborating...)
}

func (w Workspace) IsTrashed() bool { return isTrashed(w.InTrash) }
func (f Folder) IsTrashed() bool    { return isTrashed(f.InTrash) }
func (f File) IsTrashed() bool      { return isTrashed(f.InTrash) }

func isTrashed(reason *string) bool {
	return reason != nil && *reason != ""
}

// TrashReason formats the in_trash marker written on soft delete.
func TrashReason(email string) string {
	return "Deleted by " + email
}
