package workspace

import (
	"errors"
	"fmt"

	"loomspace/internal/config"
	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	titleRules = []validation.Rule{
		validation.Required,
		validation.Length(1, config.MaxTitleLength),
	}
	iconRules = []validation.Rule{
		validation.Required,
		validation.Length(1, config.MaxIconIDLength),
	}
	patchTitleRules = []validation.Rule{
		validation.NilOrNotEmpty,
		validation.Length(1, config.MaxTitleLength),
	}
	patchIconRules = []validation.Rule{
		validation.NilOrNotEmpty,
		validation.Length(1, config.MaxIconIDLength),
	}
)

// trashReason validates the in_trash value of a patch.
var trashReason = validation.By(func(value interface{}) error {
	o, _ := value.(models.OptionalString)
	if o.Value != nil && len(*o.Value) > config.MaxTrashReasonLength {
		return fmt.Errorf("must be at most %d characters", config.MaxTrashReasonLength)
	}
	return nil
})

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func validateNewWorkspace(ws *models.Workspace) error {
	if err := validateOptionalID("workspace", ws.ID); err != nil {
		return err
	}
	if err := validateID("owner", ws.OwnerID); err != nil {
		return err
	}
	return validationError(validation.ValidateStruct(ws,
		validation.Field(&ws.Title, titleRules...),
		validation.Field(&ws.IconID, iconRules...),
	))
}

func validateNewFolder(f *models.Folder) error {
	if err := validateOptionalID("folder", f.ID); err != nil {
		return err
	}
	if err := validateID("workspace", f.WorkspaceID); err != nil {
		return err
	}
	return validationError(validation.ValidateStruct(f,
		validation.Field(&f.Title, titleRules...),
		validation.Field(&f.IconID, iconRules...),
	))
}

func validateNewFile(f *models.File) error {
	if err := validateOptionalID("file", f.ID); err != nil {
		return err
	}
	if err := validateID("folder", f.FolderID); err != nil {
		return err
	}
	if err := validateOptionalID("workspace", f.WorkspaceID); err != nil {
		return err
	}
	return validationError(validation.ValidateStruct(f,
		validation.Field(&f.Title, titleRules...),
		validation.Field(&f.IconID, iconRules...),
	))
}

var errEmptyPatch = errors.New("at least one field must be provided")

func validateWorkspacePatch(p *models.WorkspacePatch) error {
	if p.IsEmpty() {
		return validationError(errEmptyPatch)
	}
	return validationError(validation.ValidateStruct(p,
		validation.Field(&p.Title, patchTitleRules...),
		validation.Field(&p.IconID, patchIconRules...),
		validation.Field(&p.InTrash, trashReason),
	))
}

func validateFolderPatch(p *models.FolderPatch) error {
	if p.IsEmpty() {
		return validationError(errEmptyPatch)
	}
	return validationError(validation.ValidateStruct(p,
		validation.Field(&p.Title, patchTitleRules...),
		validation.Field(&p.IconID, patchIconRules...),
		validation.Field(&p.InTrash, trashReason),
	))
}

func validateFilePatch(p *models.FilePatch) error {
	if p.IsEmpty() {
		return validationError(errEmptyPatch)
	}
	return validationError(validation.ValidateStruct(p,
		validation.Field(&p.Title, patchTitleRules...),
		validation.Field(&p.IconID, patchIconRules...),
		validation.Field(&p.InTrash, trashReason),
	))
}
