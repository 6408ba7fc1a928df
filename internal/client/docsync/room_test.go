package docsync

import (
	"context"
	"errors"
	"testing"

	models "loomspace/internal/domain/models/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomSource struct {
	ws            models.Result[*models.Workspace]
	collaborators models.Result[[]models.User]
}

func (r roomSource) GetWorkspaceDetails(context.Context, string) models.Result[*models.Workspace] {
	return r.ws
}

func (r roomSource) GetCollaborators(context.Context, string) models.Result[[]models.User] {
	return r.collaborators
}

func TestRoomUsersOwnerFirst(t *testing.T) {
	src := roomSource{
		ws: models.OK(&models.Workspace{ID: "ws-1", OwnerID: "owner"}),
		collaborators: models.OK([]models.User{
			{ID: "bob", Email: "bob@example.com"},
			{ID: "owner", Email: "owner@example.com"},
		}),
	}

	users, err := RoomUsers(context.Background(), src, "ws-1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "owner", users[0].ID)
	assert.Equal(t, "bob", users[1].ID)
}

func TestRoomUsersFailures(t *testing.T) {
	boom := errors.New("boom")

	_, err := RoomUsers(context.Background(), roomSource{ws: models.Fail[*models.Workspace](boom)}, "ws-1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "workspace ws-1")

	_, err = RoomUsers(context.Background(), roomSource{
		ws:            models.OK(&models.Workspace{ID: "ws-1", OwnerID: "owner"}),
		collaborators: models.Fail[[]models.User](boom),
	}, "ws-1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "collaborators of ws-1")
}

func TestSeedSkipsSelf(t *testing.T) {
	full := "Bob Builder"
	c := NewCursors()
	c.Seed([]models.User{
		{ID: "alice"},
		{ID: "bob", Email: "bob@example.com", FullName: &full},
		{ID: "carol", Email: "carol@example.com"},
		{ID: ""},
	}, "alice")

	_, ok := c.Get("alice")
	assert.False(t, ok)
	assert.Len(t, c.List(), 2)

	bob, ok := c.Get("bob")
	require.True(t, ok)
	assert.Equal(t, "Bob Builder", bob.Name)
	carol, _ := c.Get("carol")
	assert.Equal(t, "carol", carol.Name)
	assert.Equal(t, cursorColor("carol"), carol.Color)
	assert.Contains(t, cursorColors, carol.Color)
}
