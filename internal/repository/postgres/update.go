package postgres

import (
	"fmt"
	"strings"

	models "loomspace/internal/domain/models/workspace"
)

// SetClause accumulates "column = $n" assignments for a PATCH-style UPDATE.
type SetClause struct {
	assignments []string
	args        []interface{}
}

// String sets column when v is non-nil.
func (s *SetClause) String(column string, v *string) {
	if v != nil {
		s.add(column, *v)
	}
}

// Optional sets column when o is present; a null value writes NULL.
func (s *SetClause) Optional(column string, o models.OptionalString) {
	if o.Present {
		s.add(column, o.Value)
	}
}

func (s *SetClause) add(column string, v interface{}) {
	s.args = append(s.args, v)
	s.assignments = append(s.assignments, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *SetClause) Empty() bool {
	return len(s.assignments) == 0
}

// Build returns the UPDATE statement for the row of table with the given id, plus its arguments.
func (s *SetClause) Build(table, id, returning string) (string, []interface{}) {
	args := append(append([]interface{}{}, s.args...), id)
	idPos := len(args)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, table, strings.Join(s.assignments, ", "), idPos, returning)
	return query, args
}

// WorkspaceSet builds the assignments for a workspace patch.
func WorkspaceSet(p models.WorkspacePatch) *SetClause {
	s := &SetClause{}
	s.String("title", p.Title)
	s.String("icon_id", p.IconID)
	s.Optional("data", p.Data)
	s.Optional("in_trash", p.InTrash)
	s.Optional("banner_url", p.BannerURL)
	s.Optional("logo", p.Logo)
	return s
}

// FolderSet builds the assignments for a folder patch.
func FolderSet(p models.FolderPatch) *SetClause {
	s := &SetClause{}
	s.String("title", p.Title)
	s.String("icon_id", p.IconID)
	s.Optional("data", p.Data)
	s.Optional("in_trash", p.InTrash)
	s.Optional("banner_url", p.BannerURL)
	return s
}

// FileSet builds the assignments for a file patch.
func FileSet(p models.FilePatch) *SetClause {
	s := &SetClause{}
	s.String("title", p.Title)
	s.String("icon_id", p.IconID)
	s.Optional("data", p.Data)
	s.Optional("in_trash", p.InTrash)
	s.Optional("banner_url", p.BannerURL)
	return s
}
