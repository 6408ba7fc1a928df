package docsync

import (
	"context"
	"fmt"

	models "loomspace/internal/domain/models/workspace"
)

// RoomSource lists who may join the rooms of a workspace's documents.
type RoomSource interface {
	GetWorkspaceDetails(ctx context.Context, workspaceID string) models.Result[*models.Workspace]
	GetCollaborators(ctx context.Context, workspaceID string) models.Result[[]models.User]
}

// RoomUsers returns the workspace owner followed by its collaborators. The
// owner carries only an id since profiles are served for collaborators only.
func RoomUsers(ctx context.Context, src RoomSource, workspaceID string) ([]models.User, error) {
	ws := src.GetWorkspaceDetails(ctx, workspaceID)
	if err := ws.Err(); err != nil {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, err)
	}
	collaborators := src.GetCollaborators(ctx, workspaceID)
	if err := collaborators.Err(); err != nil {
		return nil, fmt.Errorf("collaborators of %s: %w", workspaceID, err)
	}

	users := make([]models.User, 0, len(collaborators.Data)+1)
	users = append(users, models.User{ID: ws.Data.OwnerID})
	for _, u := range collaborators.Data {
		if u.ID != ws.Data.OwnerID {
			users = append(users, u)
		}
	}
	return users, nil
}
