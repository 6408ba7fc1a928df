package workspace

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func sampleFile() File {
	return File{
		ID:          "file-1",
		FolderID:    "folder-1",
		WorkspaceID: "ws-1",
		Title:       "Notes",
		IconID:      "📄",
		Data:        strPtr(`{"ops":[{"insert":"hi\n"}]}`),
		BannerURL:   strPtr("banners/notes.png"),
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFilePatchApplyChangesOnlyNamedFields(t *testing.T) {
	original := sampleFile()
	patch := FilePatch{Title: strPtr("Renamed"), InTrash: Set("Deleted by a@b.com")}

	got := patch.Apply(original)

	want := original
	want.Title = "Renamed"
	want.InTrash = strPtr("Deleted by a@b.com")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}

	// Applying twice is the same as applying once
	if again := patch.Apply(got); !reflect.DeepEqual(again, got) {
		t.Errorf("second Apply changed the file: %+v", again)
	}
}

func TestPatchNullClearsField(t *testing.T) {
	f := sampleFile()
	got := FilePatch{BannerURL: Null()}.Apply(f)
	if got.BannerURL != nil {
		t.Errorf("BannerURL = %v, want nil", *got.BannerURL)
	}
	if f.BannerURL == nil {
		t.Error("Apply mutated its input")
	}
}

func TestCaptureRestoresPriorValues(t *testing.T) {
	tests := []struct {
		name  string
		patch FilePatch
	}{
		{"title", FilePatch{Title: strPtr("X")}},
		{"trash on untrashed", FilePatch{InTrash: Set("Deleted by a@b.com")}},
		{"clear banner", FilePatch{BannerURL: Null()}},
		{"data and icon", FilePatch{Data: Set("{}"), IconID: strPtr("🔥")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleFile()
			restore := tt.patch.Capture(before)
			after := tt.patch.Apply(before)

			if got := restore.Apply(after); !reflect.DeepEqual(got, before) {
				t.Errorf("restore.Apply() = %+v, want %+v", got, before)
			}
		})
	}
}

func TestWorkspacePatchJSON(t *testing.T) {
	var p WorkspacePatch
	if err := json.Unmarshal([]byte(`{"title":"Team","logo":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Title == nil || *p.Title != "Team" {
		t.Errorf("Title = %v", p.Title)
	}
	if !p.Logo.Present || p.Logo.Value != nil {
		t.Errorf("Logo = %+v, want present null", p.Logo)
	}
	if p.Data.Present || p.InTrash.Present {
		t.Error("absent fields decoded as present")
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"title":"Team","logo":null}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestIsEmpty(t *testing.T) {
	if !(FolderPatch{}).IsEmpty() {
		t.Error("zero FolderPatch should be empty")
	}
	if (FolderPatch{InTrash: Null()}).IsEmpty() {
		t.Error("explicit null is not empty")
	}
}

func TestIsTrashed(t *testing.T) {
	f := sampleFile()
	if f.IsTrashed() {
		t.Error("nil in_trash is not trashed")
	}
	f.InTrash = strPtr("")
	if f.IsTrashed() {
		t.Error("empty in_trash (restored) is not trashed")
	}
	f.InTrash = strPtr(TrashReason("a@b.com"))
	if !f.IsTrashed() {
		t.Error("reason set should be trashed")
	}
}

func TestResult(t *testing.T) {
	ok := OK([]Folder{})
	if ok.Failed() {
		t.Error("OK result reported failure")
	}

	cause := errors.New("boom")
	failed := FailWith([]Folder{}, cause)
	if !failed.Failed() || failed.Error != GenericError {
		t.Errorf("failed = %+v", failed)
	}
	if !errors.Is(failed.Cause(), cause) {
		t.Error("cause lost")
	}

	out, _ := json.Marshal(Fail[*Folder](cause))
	if string(out) != `{"data":null,"error":"Error"}` {
		t.Errorf("Marshal() = %s", out)
	}
}
