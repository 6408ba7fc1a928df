package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	models "loomspace/internal/domain/models/workspace"
)

type workspaceRepo struct{ s *Store }

func (r workspaceRepo) Create(ctx context.Context, ws *models.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.stamp(&ws.ID, &ws.CreatedAt, "workspace"); err != nil {
		return err
	}
	if _, ok := r.s.workspaces[ws.ID]; ok {
		return duplicate("workspace", ws.ID)
	}
	r.s.workspaces[ws.ID] = row[models.Workspace]{value: *ws, seq: r.s.nextSeq()}
	return nil
}

func (r workspaceRepo) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.workspaces[id]
	if !ok {
		return nil, notFound("workspace", id)
	}
	ws := rec.value
	return &ws, nil
}

func (r workspaceRepo) Update(ctx context.Context, id string, patch models.WorkspacePatch) (*models.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.workspaces[id]
	if !ok {
		return nil, notFound("workspace", id)
	}
	rec.value = patch.Apply(rec.value)
	r.s.workspaces[id] = rec
	ws := rec.value
	return &ws, nil
}

func (r workspaceRepo) Delete(ctx context.Context, id string) (*models.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.workspaces[id]
	if !ok {
		return nil, notFound("workspace", id)
	}
	for _, f := range r.s.folders {
		if f.value.WorkspaceID == id {
			return nil, stillReferenced("workspace", id, "folders")
		}
	}
	delete(r.s.workspaces, id)
	ws := rec.value
	return &ws, nil
}

func (r workspaceRepo) ListPrivate(ctx context.Context, userID string) ([]models.Workspace, error) {
	return r.list(func(ws models.Workspace) bool {
		return ws.OwnerID == userID && len(r.s.collaborators[ws.ID]) == 0
	}), nil
}

func (r workspaceRepo) ListShared(ctx context.Context, userID string) ([]models.Workspace, error) {
	return r.list(func(ws models.Workspace) bool {
		return ws.OwnerID == userID && len(r.s.collaborators[ws.ID]) > 0
	}), nil
}

func (r workspaceRepo) ListCollaborating(ctx context.Context, userID string) ([]models.Workspace, error) {
	return r.list(func(ws models.Workspace) bool {
		_, ok := r.s.collaborators[ws.ID][userID]
		return ok
	}), nil
}

func (r workspaceRepo) list(keep func(models.Workspace) bool) []models.Workspace {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []row[models.Workspace]
	for _, rec := range r.s.workspaces {
		if keep(rec.value) {
			rows = append(rows, rec)
		}
	}
	return sorted(rows, wsCreated)
}

type folderRepo struct{ s *Store }

func (r folderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.stamp(&folder.ID, &folder.CreatedAt, "folder"); err != nil {
		return err
	}
	if _, ok := r.s.workspaces[folder.WorkspaceID]; !ok {
		return missingParent("workspace", folder.WorkspaceID)
	}
	if _, ok := r.s.folders[folder.ID]; ok {
		return duplicate("folder", folder.ID)
	}
	r.s.folders[folder.ID] = row[models.Folder]{value: *folder, seq: r.s.nextSeq()}
	return nil
}

func (r folderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.folders[id]
	if !ok {
		return nil, notFound("folder", id)
	}
	f := rec.value
	return &f, nil
}

func (r folderRepo) Update(ctx context.Context, id string, patch models.FolderPatch) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.folders[id]
	if !ok {
		return nil, notFound("folder", id)
	}
	rec.value = patch.Apply(rec.value)
	r.s.folders[id] = rec
	f := rec.value
	return &f, nil
}

func (r folderRepo) Delete(ctx context.Context, id string) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.folders[id]
	if !ok {
		return nil, notFound("folder", id)
	}
	for _, f := range r.s.files {
		if f.value.FolderID == id {
			return nil, stillReferenced("folder", id, "files")
		}
	}
	delete(r.s.folders, id)
	f := rec.value
	return &f, nil
}

func (r folderRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []row[models.Folder]
	for _, rec := range r.s.folders {
		if rec.value.WorkspaceID == workspaceID {
			rows = append(rows, rec)
		}
	}
	return sorted(rows, folderCreated), nil
}

func (r folderRepo) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, rec := range r.s.folders {
		if rec.value.WorkspaceID == workspaceID {
			delete(r.s.folders, id)
		}
	}
	return nil
}

type fileRepo struct{ s *Store }

func (r fileRepo) Create(ctx context.Context, file *models.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.stamp(&file.ID, &file.CreatedAt, "file"); err != nil {
		return err
	}
	if _, ok := r.s.folders[file.FolderID]; !ok {
		return missingParent("folder", file.FolderID)
	}
	if _, ok := r.s.workspaces[file.WorkspaceID]; !ok {
		return missingParent("workspace", file.WorkspaceID)
	}
	if _, ok := r.s.files[file.ID]; ok {
		return duplicate("file", file.ID)
	}
	r.s.files[file.ID] = row[models.File]{value: *file, seq: r.s.nextSeq()}
	return nil
}

func (r fileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.files[id]
	if !ok {
		return nil, notFound("file", id)
	}
	f := rec.value
	return &f, nil
}

func (r fileRepo) Update(ctx context.Context, id string, patch models.FilePatch) (*models.File, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.files[id]
	if !ok {
		return nil, notFound("file", id)
	}
	rec.value = patch.Apply(rec.value)
	r.s.files[id] = rec
	f := rec.value
	return &f, nil
}

func (r fileRepo) Delete(ctx context.Context, id string) (*models.File, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.files[id]
	if !ok {
		return nil, notFound("file", id)
	}
	delete(r.s.files, id)
	f := rec.value
	return &f, nil
}

func (r fileRepo) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []row[models.File]
	for _, rec := range r.s.files {
		if rec.value.FolderID == folderID {
			rows = append(rows, rec)
		}
	}
	return sorted(rows, fileCreated), nil
}

func (r fileRepo) DeleteByFolder(ctx context.Context, folderID string) error {
	return r.deleteWhere(func(f models.File) bool { return f.FolderID == folderID })
}

func (r fileRepo) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	return r.deleteWhere(func(f models.File) bool { return f.WorkspaceID == workspaceID })
}

func (r fileRepo) deleteWhere(match func(models.File) bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, rec := range r.s.files {
		if match(rec.value) {
			delete(r.s.files, id)
		}
	}
	return nil
}

type collaboratorRepo struct{ s *Store }

func (r collaboratorRepo) Add(ctx context.Context, workspaceID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.workspaces[workspaceID]; !ok {
		return missingParent("workspace", workspaceID)
	}
	if _, ok := r.s.users[userID]; !ok {
		return missingParent("user", userID)
	}
	members := r.s.collaborators[workspaceID]
	if members == nil {
		members = map[string]row[models.Collaborator]{}
		r.s.collaborators[workspaceID] = members
	}
	if _, ok := members[userID]; ok {
		return nil
	}
	members[userID] = row[models.Collaborator]{
		value: models.Collaborator{WorkspaceID: workspaceID, UserID: userID, CreatedAt: r.s.now()},
		seq:   r.s.nextSeq(),
	}
	return nil
}

func (r collaboratorRepo) Remove(ctx context.Context, workspaceID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.collaborators[workspaceID], userID)
	if len(r.s.collaborators[workspaceID]) == 0 {
		delete(r.s.collaborators, workspaceID)
	}
	return nil
}

func (r collaboratorRepo) Exists(ctx context.Context, workspaceID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.collaborators[workspaceID][userID]
	return ok, nil
}

func (r collaboratorRepo) ListUsers(ctx context.Context, workspaceID string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []row[models.Collaborator]
	for _, rec := range r.s.collaborators[workspaceID] {
		rows = append(rows, rec)
	}
	members := sorted(rows, func(c models.Collaborator) time.Time { return c.CreatedAt })

	users := make([]models.User, 0, len(members))
	for _, m := range members {
		if u, ok := r.s.users[m.UserID]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r collaboratorRepo) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.collaborators, workspaceID)
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (r userRepo) SearchByEmailPrefix(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	users := []models.User{}
	for _, u := range r.s.users {
		if strings.HasPrefix(strings.ToLower(u.Email), prefix) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r userRepo) Upsert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.users[user.ID] = *user
	return nil
}
