package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	models "loomspace/internal/domain/models/workspace"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		path string
		want Location
	}{
		{"", Location{}},
		{"/dashboard", Location{}},
		{"/dashboard/w1", Location{WorkspaceID: "w1"}},
		{"/dashboard/w1/f1", Location{WorkspaceID: "w1", FolderID: "f1"}},
		{"/dashboard/w1/f1/file1", Location{WorkspaceID: "w1", FolderID: "f1", FileID: "file1"}},
		{"dashboard//w1///f1/", Location{WorkspaceID: "w1", FolderID: "f1"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := ParseLocation(tt.path)
			if got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
			if tt.want.WorkspaceID != "" && ParseLocation(got.Path()) != got {
				t.Errorf("Path() = %q does not round trip", got.Path())
			}
		})
	}
}

func TestDispatchNotifiesSubscribers(t *testing.T) {
	s := New(nil, discardLogger())

	var seen []int
	unsubscribe := s.Subscribe(func(state State) { seen = append(seen, len(state.Workspaces)) })

	if err := s.Dispatch(AddWorkspace{Workspace: workspaceNode("w1")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(DeleteWorkspace{WorkspaceID: "missing"}); err == nil {
		t.Fatal("expected error for missing workspace")
	}
	unsubscribe()
	unsubscribe()
	if err := s.Dispatch(AddWorkspace{Workspace: workspaceNode("w2")}); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(seen, []int{1}) {
		t.Errorf("notifications = %v, want [1]", seen)
	}
	if len(s.State().Workspaces) != 2 {
		t.Errorf("workspaces = %d", len(s.State().Workspaces))
	}
}

func TestConcurrentDispatch(t *testing.T) {
	s := New(nil, discardLogger())
	if err := s.Dispatch(SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}}); err != nil {
		t.Fatal(err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("f%02d", i)
			if err := s.Dispatch(AddFolder{WorkspaceID: "w1", Folder: folderNode("w1", id, at(i))}); err != nil {
				t.Error(err)
			}
			_ = s.State()
		}(i)
	}
	wg.Wait()

	ids := folderIDs(s.State(), "w1")
	if len(ids) != n {
		t.Fatalf("folders = %d, want %d", len(ids), n)
	}
	for i, id := range ids {
		if id != fmt.Sprintf("f%02d", i) {
			t.Fatalf("folders out of order at %d: %v", i, ids)
		}
	}
}

type fakeLister struct {
	calls []string
	files map[string][]models.File
	fail  bool
}

func (f *fakeLister) GetFiles(_ context.Context, folderID string) models.Result[[]models.File] {
	f.calls = append(f.calls, folderID)
	if f.fail {
		return models.Fail[[]models.File](errors.New("connection refused"))
	}
	return models.OK(f.files[folderID])
}

func TestNavigateLoadsFilesLazily(t *testing.T) {
	lister := &fakeLister{files: map[string][]models.File{
		"f1": {file("w1", "f1", "a", at(0))},
		"f2": {file("w1", "f2", "b", at(0))},
	}}
	s := New(lister, discardLogger())
	if err := s.Dispatch(SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(SetFolders{WorkspaceID: "w1", Folders: []FolderNode{folderNode("w1", "f1", at(0)), folderNode("w1", "f2", at(1))}}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s.Navigate(ctx, "/dashboard/w1")
	s.Navigate(ctx, "/dashboard/w1/f1")
	s.Navigate(ctx, "/dashboard/w1/f1/a")
	loc := s.Navigate(ctx, "/dashboard/w1/f2")

	if !reflect.DeepEqual(lister.calls, []string{"f1", "f2"}) {
		t.Errorf("fetches = %v, want [f1 f2]", lister.calls)
	}
	if loc != s.Location() || loc.FolderID != "f2" {
		t.Errorf("location = %+v", s.Location())
	}
	for _, folder := range []string{"f1", "f2"} {
		if got := VisibleFiles(s.State(), "w1", folder); len(got) != 1 {
			t.Errorf("%s files = %+v", folder, got)
		}
	}
}

func TestNavigateFetchFailureLeavesState(t *testing.T) {
	lister := &fakeLister{fail: true}
	s := New(lister, discardLogger())
	if err := s.Dispatch(SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}}); err != nil {
		t.Fatal(err)
	}
	before := s.State()

	s.Navigate(context.Background(), "/dashboard/w1/f1")

	if len(lister.calls) != 1 {
		t.Errorf("fetches = %v", lister.calls)
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Error("state changed after failed fetch")
	}
}

func TestSelectors(t *testing.T) {
	trashed := file("w1", "f1", "old", at(0))
	trashed.InTrash = strPtr(models.TrashReason("a@b.com"))
	trashedFolder := folderNode("w1", "f2", at(1))
	trashedFolder.InTrash = strPtr(models.TrashReason("a@b.com"))
	emptyReason := file("w1", "f1", "restored", at(1))
	emptyReason.InTrash = strPtr("")

	s := mustReduce(t, State{},
		SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}},
		SetFolders{WorkspaceID: "w1", Folders: []FolderNode{folderNode("w1", "f1", at(0)), trashedFolder}},
		SetFiles{WorkspaceID: "w1", FolderID: "f1", Files: []models.File{trashed, emptyReason}},
	)

	if got := VisibleFolders(s, "w1"); len(got) != 1 || got[0].ID != "f1" {
		t.Errorf("visible folders = %+v", got)
	}
	if got := TrashedFolders(s, "w1"); len(got) != 1 || got[0].ID != "f2" {
		t.Errorf("trashed folders = %+v", got)
	}
	if got := VisibleFiles(s, "w1", "f1"); len(got) != 1 || got[0].ID != "restored" {
		t.Errorf("visible files = %+v", got)
	}
	if got := TrashedFiles(s, "w1"); len(got) != 1 || got[0].ID != "old" {
		t.Errorf("trashed files = %+v", got)
	}
	if VisibleFolders(s, "missing") != nil || TrashedFiles(s, "missing") != nil {
		t.Error("missing workspace should select nothing")
	}
}

func TestBreadcrumb(t *testing.T) {
	s := mustReduce(t, State{},
		SetWorkspaces{Workspaces: []WorkspaceNode{workspaceNode("w1")}},
		AddFolder{WorkspaceID: "w1", Folder: folderNode("w1", "f1", at(0))},
		AddFile{WorkspaceID: "w1", FolderID: "f1", File: file("w1", "f1", "x", at(0))},
	)

	tests := []struct {
		path string
		want string
	}{
		{"/dashboard/w1", "💼 ws w1"},
		{"/dashboard/w1/f1", "💼 ws w1 / 📁 folder f1"},
		{"/dashboard/w1/f1/x", "💼 ws w1 / 📁 folder f1 / 📄 file x"},
		{"/dashboard/w1/f1/missing", "💼 ws w1 / 📁 folder f1"},
		{"/dashboard/nope", ""},
	}
	for _, tt := range tests {
		if got := Breadcrumb(s, ParseLocation(tt.path)); got != tt.want {
			t.Errorf("Breadcrumb(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
