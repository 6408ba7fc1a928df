package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUserNotFound is returned when no auth account matches an email.
var ErrUserNotFound = errors.New("user not found")

// AdminClient provides access to the Supabase Admin API for user management.
// Used for seeding demo accounts, not for the regular authentication flow.
type AdminClient struct {
	supabaseURL string
	serviceKey  string
	httpClient  *http.Client
}

// NewAdminClient creates a new Supabase Admin API client.
// Requires the service role key (SUPABASE_KEY) for elevated permissions.
func NewAdminClient(supabaseURL, serviceKey string) *AdminClient {
	return &AdminClient{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		serviceKey:  serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUserRequest is the payload for creating a new user
type CreateUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// AdminUser is an account as returned by the Admin API
type AdminUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// ListUsersResponse is the response from listing users
type ListUsersResponse struct {
	Users []AdminUser `json:"users"`
}

// EnsureUser returns the account for email, creating a confirmed one when missing.
func (c *AdminClient) EnsureUser(ctx context.Context, email, password, fullName string) (*AdminUser, error) {
	existing, err := c.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	return c.CreateUser(ctx, email, password, fullName)
}

// DeleteUserByEmail finds a user by email and deletes them.
// Idempotent: returns nil if the user doesn't exist.
func (c *AdminClient) DeleteUserByEmail(ctx context.Context, email string) error {
	user, err := c.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+user.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete user failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FindUserByEmail searches the first page of accounts for email.
func (c *AdminClient) FindUserByEmail(ctx context.Context, email string) (*AdminUser, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list users failed with status %d: %s", resp.StatusCode, string(body))
	}

	var listResp ListUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	for _, user := range listResp.Users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", email, ErrUserNotFound)
}

// CreateUser creates a confirmed user (no email verification needed).
func (c *AdminClient) CreateUser(ctx context.Context, email, password, fullName string) (*AdminUser, error) {
	payload := CreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	}
	if fullName != "" {
		payload.UserMetadata = map[string]interface{}{"full_name": fullName}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create user failed with status %d: %s", resp.StatusCode, string(body))
	}

	var created AdminUser
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	return &created, nil
}

func (c *AdminClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.supabaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}
