package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

func TestFileSetOnlyNamedColumns(t *testing.T) {
	title := "Renamed"
	set := FileSet(models.FilePatch{Title: &title, BannerURL: models.Null()})

	query, args := set.Build("dev_files", "file-1", "id")

	if !strings.Contains(query, "SET title = $1, banner_url = $2") {
		t.Errorf("unexpected SET clause: %s", query)
	}
	if !strings.Contains(query, "WHERE id = $3") {
		t.Errorf("id placeholder wrong: %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v, want 3 entries", args)
	}
	if args[0] != "Renamed" {
		t.Errorf("args[0] = %v", args[0])
	}
	if v, ok := args[1].(*string); !ok || v != nil {
		t.Errorf("banner_url arg = %#v, want nil *string", args[1])
	}
	if args[2] != "file-1" {
		t.Errorf("id arg = %v", args[2])
	}
}

func TestEmptyPatchHasNoAssignments(t *testing.T) {
	if !WorkspaceSet(models.WorkspacePatch{}).Empty() {
		t.Error("empty patch should produce no assignments")
	}
	if FolderSet(models.FolderPatch{InTrash: models.Set("")}).Empty() {
		t.Error("restore (empty in_trash) must still be written")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domain.ErrValidation},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrValidation},
		{"duplicate", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err, "op", "folder x"); !errors.Is(got, tt.want) {
				t.Errorf("Classify() = %v, want wrapping %v", got, tt.want)
			}
		})
	}

	if Classify(nil, "op", "x") != nil {
		t.Error("nil error should stay nil")
	}
}

func TestTableNamesDropOrder(t *testing.T) {
	tables := NewTableNames("test_")
	all := tables.All()
	if all[0] != "test_collaborators" || all[len(all)-1] != "test_users" {
		t.Errorf("All() = %v", all)
	}
}
