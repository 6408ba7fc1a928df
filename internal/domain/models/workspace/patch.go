package workspace

// WorkspacePatch is a partial workspace update. Only provided fields overwrite.
type WorkspacePatch struct {
	Title     *string        `json:"title,omitempty"`
	IconID    *string        `json:"icon_id,omitempty"`
	Data      OptionalString `json:"data,omitzero"`
	InTrash   OptionalString `json:"in_trash,omitzero"`
	BannerURL OptionalString `json:"banner_url,omitzero"`
	Logo      OptionalString `json:"logo,omitzero"`
}

// FolderPatch is a partial folder update. Only provided fields overwrite.
type FolderPatch struct {
	Title     *string        `json:"title,omitempty"`
	IconID    *string        `json:"icon_id,omitempty"`
	Data      OptionalString `json:"data,omitzero"`
	InTrash   OptionalString `json:"in_trash,omitzero"`
	BannerURL OptionalString `json:"banner_url,omitzero"`
}

// FilePatch is a partial file update. Only provided fields overwrite.
type FilePatch struct {
	Title     *string        `json:"title,omitempty"`
	IconID    *string        `json:"icon_id,omitempty"`
	Data      OptionalString `json:"data,omitzero"`
	InTrash   OptionalString `json:"in_trash,omitzero"`
	BannerURL OptionalString `json:"banner_url,omitzero"`
}

func (p WorkspacePatch) IsEmpty() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Present && !p.InTrash.Present &&
		!p.BannerURL.Present && !p.Logo.Present
}

// Apply returns w with the provided fields overwritten.
func (p WorkspacePatch) Apply(w Workspace) Workspace {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.IconID != nil {
		w.IconID = *p.IconID
	}
	w.Data = p.Data.or(w.Data)
	w.InTrash = p.InTrash.or(w.InTrash)
	w.BannerURL = p.BannerURL.or(w.BannerURL)
	w.Logo = p.Logo.or(w.Logo)
	return w
}

// Capture returns a patch restoring w's current values for exactly the fields p names.
func (p WorkspacePatch) Capture(w Workspace) WorkspacePatch {
	var restore WorkspacePatch
	if p.Title != nil {
		restore.Title = clonePtr(&w.Title)
	}
	if p.IconID != nil {
		restore.IconID = clonePtr(&w.IconID)
	}
	if p.Data.Present {
		restore.Data = capture(w.Data)
	}
	if p.InTrash.Present {
		restore.InTrash = capture(w.InTrash)
	}
	if p.BannerURL.Present {
		restore.BannerURL = capture(w.BannerURL)
	}
	if p.Logo.Present {
		restore.Logo = capture(w.Logo)
	}
	return restore
}

func (p FolderPatch) IsEmpty() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Present && !p.InTrash.Present && !p.BannerURL.Present
}

// Apply returns f with the provided fields overwritten.
func (p FolderPatch) Apply(f Folder) Folder {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	f.Data = p.Data.or(f.Data)
	f.InTrash = p.InTrash.or(f.InTrash)
	f.BannerURL = p.BannerURL.or(f.BannerURL)
	return f
}

// Capture returns a patch restoring f's current values for exactly the fields p names.
func (p FolderPatch) Capture(f Folder) FolderPatch {
	var restore FolderPatch
	if p.Title != nil {
		restore.Title = clonePtr(&f.Title)
	}
	if p.IconID != nil {
		restore.IconID = clonePtr(&f.IconID)
	}
	if p.Data.Present {
		restore.Data = capture(f.Data)
	}
	if p.InTrash.Present {
		restore.InTrash = capture(f.InTrash)
	}
	if p.BannerURL.Present {
		restore.BannerURL = capture(f.BannerURL)
	}
	return restore
}

func (p FilePatch) IsEmpty() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Present && !p.InTrash.Present && !p.BannerURL.Present
}

// Apply returns f with the provided fields overwritten.
func (p FilePatch) Apply(f File) File {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	f.Data = p.Data.or(f.Data)
	f.InTrash = p.InTrash.or(f.InTrash)
	f.BannerURL = p.BannerURL.or(f.BannerURL)
	return f
}

// Capture returns a patch restoring f's current values for exactly the fields p names.
func (p FilePatch) Capture(f File) FilePatch {
	var restore FilePatch
	if p.Title != nil {
		restore.Title = clonePtr(&f.Title)
	}
	if p.IconID != nil {
		restore.IconID = clonePtr(&f.IconID)
	}
	if p.Data.Present {
		restore.Data = capture(f.Data)
	}
	if p.InTrash.Present {
		restore.InTrash = capture(f.InTrash)
	}
	if p.BannerURL.Present {
		restore.BannerURL = capture(f.BannerURL)
	}
	return restore
}
