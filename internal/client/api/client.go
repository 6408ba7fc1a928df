// Package api is the typed HTTP client for the workspace API. Every call
// returns the same Result envelope the server writes; transport and decoding
// failures are reported as the generic error with the cause attached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

// Client talks to one API server as one user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for baseURL authenticating with the bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token, for dialing the realtime hub.
func (c *Client) Token() string {
	return c.token
}

// SocketURL is the realtime hub endpoint on the same server.
func (c *Client) SocketURL() string {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + "/ws"
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + "/ws"
	default:
		return c.baseURL + "/ws"
	}
}

// Workspaces

func (c *Client) ListWorkspaces(ctx context.Context) models.Result[*models.Listing] {
	return call[*models.Listing](ctx, c, http.MethodGet, "/api/workspaces", nil)
}

func (c *Client) CreateWorkspace(ctx context.Context, ws models.Workspace) models.Result[*models.Workspace] {
	return call[*models.Workspace](ctx, c, http.MethodPost, "/api/workspaces", ws)
}

func (c *Client) GetWorkspaceDetails(ctx context.Context, workspaceID string) models.Result[*models.Workspace] {
	return call[*models.Workspace](ctx, c, http.MethodGet, path("workspaces", workspaceID), nil)
}

func (c *Client) UpdateWorkspace(ctx context.Context, workspaceID string, patch models.WorkspacePatch) models.Result[*models.Workspace] {
	return call[*models.Workspace](ctx, c, http.MethodPatch, path("workspaces", workspaceID), patch)
}

func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) models.Result[*models.Workspace] {
	return call[*models.Workspace](ctx, c, http.MethodDelete, path("workspaces", workspaceID), nil)
}

// Folders

func (c *Client) GetFolders(ctx context.Context, workspaceID string) models.Result[[]models.Folder] {
	return call[[]models.Folder](ctx, c, http.MethodGet, path("workspaces", workspaceID)+"/folders", nil)
}

func (c *Client) GetFolderDetails(ctx context.Context, folderID string) models.Result[*models.Folder] {
	return call[*models.Folder](ctx, c, http.MethodGet, path("folders", folderID), nil)
}

func (c *Client) CreateFolder(ctx context.Context, folder models.Folder) models.Result[*models.Folder] {
	return call[*models.Folder](ctx, c, http.MethodPost, path("workspaces", folder.WorkspaceID)+"/folders", folder)
}

func (c *Client) UpdateFolder(ctx context.Context, folderID string, patch models.FolderPatch) models.Result[*models.Folder] {
	return call[*models.Folder](ctx, c, http.MethodPatch, path("folders", folderID), patch)
}

func (c *Client) DeleteFolder(ctx context.Context, folderID string) models.Result[*models.Folder] {
	return call[*models.Folder](ctx, c, http.MethodDelete, path("folders", folderID), nil)
}

// Files

func (c *Client) GetFiles(ctx context.Context, folderID string) models.Result[[]models.File] {
	return call[[]models.File](ctx, c, http.MethodGet, path("folders", folderID)+"/files", nil)
}

func (c *Client) GetFileDetails(ctx context.Context, fileID string) models.Result[*models.File] {
	return call[*models.File](ctx, c, http.MethodGet, path("files", fileID), nil)
}

func (c *Client) CreateFile(ctx context.Context, file models.File) models.Result[*models.File] {
	return call[*models.File](ctx, c, http.MethodPost, path("folders", file.FolderID)+"/files", file)
}

func (c *Client) UpdateFile(ctx context.Context, fileID string, patch models.FilePatch) models.Result[*models.File] {
	return call[*models.File](ctx, c, http.MethodPatch, path("files", fileID), patch)
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) models.Result[*models.File] {
	return call[*models.File](ctx, c, http.MethodDelete, path("files", fileID), nil)
}

// Collaborators

type collaboratorsRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (c *Client) GetCollaborators(ctx context.Context, workspaceID string) models.Result[[]models.User] {
	return call[[]models.User](ctx, c, http.MethodGet, path("workspaces", workspaceID)+"/collaborators", nil)
}

func (c *Client) AddCollaborators(ctx context.Context, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return call[[]models.User](ctx, c, http.MethodPost, path("workspaces", workspaceID)+"/collaborators", collaboratorsRequest{userIDs})
}

func (c *Client) RemoveCollaborators(ctx context.Context, workspaceID string, userIDs []string) models.Result[[]models.User] {
	return call[[]models.User](ctx, c, http.MethodDelete, path("workspaces", workspaceID)+"/collaborators", collaboratorsRequest{userIDs})
}

func (c *Client) SearchUsers(ctx context.Context, emailPrefix string) models.Result[[]models.User] {
	return call[[]models.User](ctx, c, http.MethodGet, "/api/users/search?email="+url.QueryEscape(emailPrefix), nil)
}

func path(collection, id string) string {
	return "/api/" + collection + "/" + url.PathEscape(id)
}

// call performs one request and decodes the envelope. Non-2xx responses
// always come back failed, with the cause classified from the status.
func call[T any](ctx context.Context, c *Client, method, route string, body interface{}) models.Result[T] {
	res, err := roundTrip[T](ctx, c, method, route, body)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", route, "error", err)
		return models.Fail[T](err)
	}
	return res
}

func roundTrip[T any](ctx context.Context, c *Client, method, route string, body interface{}) (models.Result[T], error) {
	var res models.Result[T]

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return res, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return res, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("%s %s: failed to read response: %w", method, route, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// Envelope failures and problem details both land here; only the
		// status matters for classification.
		_ = json.Unmarshal(data, &res)
		cause := fmt.Errorf("%s %s (status %d): %w", method, route, resp.StatusCode, domain.ErrorForStatus(resp.StatusCode))
		return models.FailWith(res.Data, cause), nil
	}

	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("%s %s: failed to decode response: %w", method, route, err)
	}
	if res.Failed() {
		return res.WithCause(fmt.Errorf("%s %s: %s", method, route, res.Error)), nil
	}
	return res, nil
}
