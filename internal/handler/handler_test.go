package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/httputil"
	"loomspace/internal/repository/memory"
	"loomspace/internal/service/auth"
	wsService "loomspace/internal/service/workspace"
)

const (
	ownerID = "11111111-1111-4111-8111-111111111111"
	guestID = "22222222-2222-4222-8222-222222222222"
)

// newServer mounts every route behind a header-driven identity stub.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	for id, email := range map[string]string{ownerID: "owner@example.com", guestID: "guest@example.com"} {
		if err := store.Users().Upsert(context.Background(), &models.User{ID: id, Email: email}); err != nil {
			t.Fatal(err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorizer := auth.NewMembershipAuthorizer(store.Workspaces(), store.Folders(), store.Files(), store.Collaborators())
	tx := store.TxManager()

	mux := http.NewServeMux()
	Register(mux, Handlers{
		Workspaces:    NewWorkspaceHandler(wsService.NewWorkspaceService(store.Workspaces(), store.Folders(), store.Files(), store.Collaborators(), tx, authorizer, logger), logger),
		Folders:       NewFolderHandler(wsService.NewFolderService(store.Folders(), store.Files(), tx, authorizer, logger), logger),
		Files:         NewFileHandler(wsService.NewFileService(store.Files(), store.Folders(), authorizer, logger), logger),
		Collaborators: NewCollaboratorHandler(wsService.NewCollaboratorService(store.Collaborators(), store.Users(), tx, authorizer, logger), logger),
	})

	identity := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, httputil.WithUser(r, r.Header.Get("X-Test-User"), ""))
	})
	srv := httptest.NewServer(identity)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func call(t *testing.T, srv *httptest.Server, user, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Test-User", user)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestWorkspaceLifecycle(t *testing.T) {
	srv := newServer(t)

	status, env := call(t, srv, ownerID, http.MethodPost, "/api/workspaces", map[string]string{"title": "Team", "icon_id": "💼"})
	if status != http.StatusCreated || env.Error != "" {
		t.Fatalf("create: %d %+v", status, env)
	}
	ws := decode[models.Workspace](t, env.Data)
	if ws.OwnerID != ownerID || ws.ID == "" {
		t.Fatalf("workspace = %+v", ws)
	}

	status, env = call(t, srv, ownerID, http.MethodPost, "/api/workspaces/"+ws.ID+"/folders", map[string]string{"title": "Notes", "icon_id": "📁"})
	if status != http.StatusCreated {
		t.Fatalf("create folder: %d %+v", status, env)
	}
	folder := decode[models.Folder](t, env.Data)
	if folder.WorkspaceID != ws.ID {
		t.Errorf("folder workspace = %s", folder.WorkspaceID)
	}

	status, env = call(t, srv, ownerID, http.MethodPost, "/api/folders/"+folder.ID+"/files", map[string]string{"title": "Today", "icon_id": "📄"})
	if status != http.StatusCreated {
		t.Fatalf("create file: %d %+v", status, env)
	}
	file := decode[models.File](t, env.Data)

	status, env = call(t, srv, ownerID, http.MethodPatch, "/api/files/"+file.ID, map[string]interface{}{"in_trash": "Deleted by owner@example.com"})
	if status != http.StatusOK {
		t.Fatalf("trash: %d %+v", status, env)
	}
	if !decode[models.File](t, env.Data).IsTrashed() {
		t.Error("file not trashed")
	}

	status, env = call(t, srv, ownerID, http.MethodGet, "/api/folders/"+folder.ID+"/files", nil)
	if status != http.StatusOK || len(decode[[]models.File](t, env.Data)) != 1 {
		t.Fatalf("list files: %d %s", status, env.Data)
	}

	status, _ = call(t, srv, ownerID, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	if status != http.StatusOK {
		t.Fatalf("delete folder: %d", status)
	}
	status, env = call(t, srv, ownerID, http.MethodGet, "/api/files/"+file.ID, nil)
	if status != http.StatusNotFound || env.Error != "Error" {
		t.Errorf("file after folder delete: %d %+v", status, env)
	}
}

func TestFailuresUseResultEnvelope(t *testing.T) {
	srv := newServer(t)

	status, env := call(t, srv, ownerID, http.MethodGet, "/api/workspaces/not-a-uuid/folders", nil)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if env.Error != "Error" || string(env.Data) != "null" {
		t.Errorf("envelope = %s / %q", env.Data, env.Error)
	}

	status, env = call(t, srv, ownerID, http.MethodPatch, "/api/workspaces/"+guestID, map[string]string{})
	if status != http.StatusBadRequest || env.Error != "Error" {
		t.Errorf("empty patch = %d %+v", status, env)
	}
}

func TestSharingAndSearch(t *testing.T) {
	srv := newServer(t)

	_, env := call(t, srv, ownerID, http.MethodPost, "/api/workspaces", map[string]string{"title": "Team", "icon_id": "💼"})
	ws := decode[models.Workspace](t, env.Data)

	status, _ := call(t, srv, guestID, http.MethodGet, "/api/workspaces/"+ws.ID, nil)
	if status != http.StatusForbidden {
		t.Errorf("guest before sharing = %d, want 403", status)
	}

	_, env = call(t, srv, ownerID, http.MethodGet, "/api/users/search?email=gu", nil)
	found := decode[[]models.User](t, env.Data)
	if len(found) != 1 || found[0].ID != guestID {
		t.Fatalf("search = %+v", found)
	}

	status, env = call(t, srv, ownerID, http.MethodPost, "/api/workspaces/"+ws.ID+"/collaborators", CollaboratorsRequest{UserIDs: []string{guestID}})
	if status != http.StatusOK || len(decode[[]models.User](t, env.Data)) != 1 {
		t.Fatalf("add: %d %s", status, env.Data)
	}

	_, env = call(t, srv, guestID, http.MethodGet, "/api/workspaces", nil)
	listing := decode[models.Listing](t, env.Data)
	if len(listing.Collaborating) != 1 || listing.Collaborating[0].ID != ws.ID {
		t.Errorf("guest listing = %+v", listing)
	}

	status, env = call(t, srv, guestID, http.MethodDelete, "/api/workspaces/"+ws.ID+"/collaborators", CollaboratorsRequest{UserIDs: []string{guestID}})
	if status != http.StatusOK || len(decode[[]models.User](t, env.Data)) != 0 {
		t.Errorf("leave: %d %s", status, env.Data)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
