package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/repository/memory"
	"loomspace/internal/service/auth"
	wsService "loomspace/internal/service/workspace"

	"github.com/google/uuid"
)

var _ Persistence = (*wsService.UserScope)(nil)

var errUnavailable = errors.New("backend unavailable")

// fakeBackend records writes and fails all of them when fail is set.
type fakeBackend struct {
	fakeLister
	fail   bool
	writes []string
}

func result[T any](b *fakeBackend, op string, v T) models.Result[*T] {
	b.writes = append(b.writes, op)
	if b.fail {
		return models.Fail[*T](errUnavailable)
	}
	return models.OK(&v)
}

func (b *fakeBackend) CreateWorkspace(_ context.Context, ws models.Workspace) models.Result[*models.Workspace] {
	return result(b, "create workspace", ws)
}
func (b *fakeBackend) UpdateWorkspace(context.Context, string, models.WorkspacePatch) models.Result[*models.Workspace] {
	return result(b, "update workspace", models.Workspace{})
}
func (b *fakeBackend) DeleteWorkspace(context.Context, string) models.Result[*models.Workspace] {
	return result(b, "delete workspace", models.Workspace{})
}
func (b *fakeBackend) CreateFolder(_ context.Context, f models.Folder) models.Result[*models.Folder] {
	return result(b, "create folder", f)
}
func (b *fakeBackend) UpdateFolder(context.Context, string, models.FolderPatch) models.Result[*models.Folder] {
	return result(b, "update folder", models.Folder{})
}
func (b *fakeBackend) DeleteFolder(context.Context, string) models.Result[*models.Folder] {
	return result(b, "delete folder", models.Folder{})
}
func (b *fakeBackend) CreateFile(_ context.Context, f models.File) models.Result[*models.File] {
	return result(b, "create file", f)
}
func (b *fakeBackend) UpdateFile(context.Context, string, models.FilePatch) models.Result[*models.File] {
	return result(b, "update file", models.File{})
}
func (b *fakeBackend) DeleteFile(context.Context, string) models.Result[*models.File] {
	return result(b, "delete file", models.File{})
}

// loaded returns a store holding w1/f1/file1 and a mutator over backend.
func loaded(t *testing.T, backend *fakeBackend) (*Store, *Mutator) {
	t.Helper()
	s := New(backend, discardLogger())
	doc := file("w1", "f1", "file1", at(0))
	doc.Data = strPtr(`{"ops":[{"insert":"draft\n"}]}`)
	for _, a := range []Action{
		SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}},
		AddFolder{WorkspaceID: "w1", Folder: folderNode("w1", "f1", at(0))},
		AddFolder{WorkspaceID: "w1", Folder: folderNode("w1", "f2", at(1))},
		AddFile{WorkspaceID: "w1", FolderID: "f1", File: doc},
	} {
		if err := s.Dispatch(a); err != nil {
			t.Fatal(err)
		}
	}
	return s, NewMutator(s, backend, discardLogger())
}

func TestMutatorRollsBackFailedUpdates(t *testing.T) {
	backend := &fakeBackend{fail: true}
	s, m := loaded(t, backend)
	before := s.State()
	ctx := context.Background()

	results := []bool{
		m.UpdateFile(ctx, "w1", "f1", "file1", models.FilePatch{Title: strPtr("Renamed"), Data: models.Null()}).Failed(),
		m.TrashFile(ctx, "w1", "f1", "file1", "a@b.com").Failed(),
		m.TrashFolder(ctx, "w1", "f2", "a@b.com").Failed(),
		m.UpdateWorkspace(ctx, "w1", models.WorkspacePatch{Logo: models.Set("logo.png")}).Failed(),
	}
	for i, failed := range results {
		if !failed {
			t.Errorf("update %d: expected failure", i)
		}
	}

	if !reflect.DeepEqual(before, s.State()) {
		t.Errorf("state not restored:\n got %+v\nwant %+v", s.State(), before)
	}
	if len(backend.writes) != 4 {
		t.Errorf("writes = %v", backend.writes)
	}
}

func TestMutatorRollsBackFailedCreatesAndDeletes(t *testing.T) {
	backend := &fakeBackend{fail: true}
	s, m := loaded(t, backend)
	before := s.State()
	ctx := context.Background()

	res := m.CreateFolder(ctx, models.Folder{WorkspaceID: "w1", Title: "New", IconID: "📁"})
	if !res.Failed() || res.Error != models.GenericError {
		t.Fatalf("create folder = %+v", res)
	}
	if !errors.Is(res.Cause(), errUnavailable) {
		t.Errorf("cause = %v", res.Cause())
	}
	m.CreateFile(ctx, models.File{WorkspaceID: "w1", FolderID: "f1", Title: "New", IconID: "📄"})
	m.CreateWorkspace(ctx, models.Workspace{Title: "New", IconID: "💼"})
	m.DeleteFile(ctx, "w1", "f1", "file1")
	m.DeleteFolder(ctx, "w1", "f1")
	m.DeleteWorkspace(ctx, "w1")

	if !reflect.DeepEqual(before, s.State()) {
		t.Errorf("state not restored:\n got %+v\nwant %+v", s.State(), before)
	}
}

func TestMutatorKeepsSuccessfulChanges(t *testing.T) {
	backend := &fakeBackend{}
	s, m := loaded(t, backend)
	ctx := context.Background()

	res := m.CreateFile(ctx, models.File{WorkspaceID: "w1", FolderID: "f2", Title: "Plan", IconID: "📄"})
	if res.Failed() {
		t.Fatal(res.Cause())
	}
	if uuid.Validate(res.Data.ID) != nil || res.Data.CreatedAt.IsZero() {
		t.Errorf("created file not stamped: %+v", res.Data)
	}
	if _, ok := FindFile(s.State(), "w1", "f2", res.Data.ID); !ok {
		t.Error("created file missing from state")
	}

	m.TrashFile(ctx, "w1", "f1", "file1", "a@b.com")
	if got := TrashedFiles(s.State(), "w1"); len(got) != 1 || *got[0].InTrash != "Deleted by a@b.com" {
		t.Errorf("trashed = %+v", got)
	}
	m.RestoreFile(ctx, "w1", "f1", "file1")
	if got := TrashedFiles(s.State(), "w1"); len(got) != 0 {
		t.Errorf("still trashed: %+v", got)
	}

	m.RestoreFolder(ctx, "w1", "f2")
	m.DeleteFolder(ctx, "w1", "f1")
	if _, ok := FindFolder(s.State(), "w1", "f1"); ok {
		t.Error("deleted folder still present")
	}
}

func TestMutatorConflictSkipsWrite(t *testing.T) {
	backend := &fakeBackend{}
	s, m := loaded(t, backend)
	before := s.State()

	res := m.CreateWorkspace(context.Background(), models.Workspace{ID: "w1", Title: "Dup", IconID: "💼"})
	if !res.Failed() {
		t.Fatal("expected conflict")
	}
	if len(backend.writes) != 0 {
		t.Errorf("writes = %v", backend.writes)
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Error("state changed")
	}
}

func TestMutatorWritesWhenParentNotLoaded(t *testing.T) {
	backend := &fakeBackend{fail: true}
	s := New(backend, discardLogger())
	m := NewMutator(s, backend, discardLogger())

	res := m.CreateFolder(context.Background(), models.Folder{WorkspaceID: "elsewhere", Title: "x", IconID: "📁"})
	if !res.Failed() || len(backend.writes) != 1 {
		t.Errorf("result = %+v, writes = %v", res, backend.writes)
	}
	if len(s.State().Workspaces) != 0 {
		t.Error("state changed")
	}
}

func TestMutatorOverServiceScope(t *testing.T) {
	const ownerID = "11111111-1111-4111-8111-111111111111"

	mem := memory.NewStore()
	logger := discardLogger()
	authorizer := auth.NewMembershipAuthorizer(mem.Workspaces(), mem.Folders(), mem.Files(), mem.Collaborators())
	tx := mem.TxManager()
	scope := wsService.Services{
		Workspaces:    wsService.NewWorkspaceService(mem.Workspaces(), mem.Folders(), mem.Files(), mem.Collaborators(), tx, authorizer, logger),
		Folders:       wsService.NewFolderService(mem.Folders(), mem.Files(), tx, authorizer, logger),
		Files:         wsService.NewFileService(mem.Files(), mem.Folders(), authorizer, logger),
		Collaborators: wsService.NewCollaboratorService(mem.Collaborators(), mem.Users(), tx, authorizer, logger),
	}.ForUser(ownerID)

	s := New(scope, logger)
	m := NewMutator(s, scope, logger)
	ctx := context.Background()

	ws := m.CreateWorkspace(ctx, models.Workspace{OwnerID: ownerID, Title: "Team", IconID: "💼"})
	if ws.Failed() {
		t.Fatalf("create workspace: %v", ws.Cause())
	}
	folder := m.CreateFolder(ctx, models.Folder{WorkspaceID: ws.Data.ID, Title: "Notes", IconID: "📁"})
	if folder.Failed() {
		t.Fatalf("create folder: %v", folder.Cause())
	}
	created := m.CreateFile(ctx, models.File{WorkspaceID: ws.Data.ID, FolderID: folder.Data.ID, Title: "Today", IconID: "📄"})
	if created.Failed() {
		t.Fatalf("create file: %v", created.Cause())
	}

	// an empty title is rejected by the service and rolled back locally
	bad := m.UpdateFile(ctx, ws.Data.ID, folder.Data.ID, created.Data.ID, models.FilePatch{Title: strPtr("")})
	if !bad.Failed() {
		t.Fatal("expected validation failure")
	}
	got, _ := FindFile(s.State(), ws.Data.ID, folder.Data.ID, created.Data.ID)
	if got.Title != "Today" {
		t.Errorf("title = %q, want rollback to Today", got.Title)
	}

	// a fresh store picks the file up through navigation
	fresh := New(scope, logger)
	if err := fresh.Dispatch(SetWorkspaces{Workspaces: []WorkspaceNode{{Workspace: *ws.Data, Folders: []FolderNode{NewFolderNode(*folder.Data)}}}}); err != nil {
		t.Fatal(err)
	}
	fresh.Navigate(ctx, Location{WorkspaceID: ws.Data.ID, FolderID: folder.Data.ID}.Path())
	if files := VisibleFiles(fresh.State(), ws.Data.ID, folder.Data.ID); len(files) != 1 || files[0].ID != created.Data.ID {
		t.Errorf("navigated files = %+v", files)
	}
}
