package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loomspace/internal/domain"
	"loomspace/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSecretVerifierRoundTrip(t *testing.T) {
	verifier, err := NewSecretVerifier(testSecret, discard())
	require.NoError(t, err)

	token, err := SignToken(testSecret, "user-1", "ada@example.com", time.Minute)
	require.NoError(t, err)

	claims, err := verifier.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.GetUserID())
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestSecretVerifierRejects(t *testing.T) {
	verifier, err := NewSecretVerifier(testSecret, discard())
	require.NoError(t, err)

	wrongKey, _ := SignToken("another-secret-another-secret-another", "user-1", "", time.Minute)
	expired, _ := SignToken(testSecret, "user-1", "", -time.Minute)

	anon := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Role:             "anon",
	})
	anonToken, _ := anon.SignedString([]byte(testSecret))

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SupabaseClaims{Role: "authenticated"})
	noSubjectToken, _ := noSubject.SignedString([]byte(testSecret))

	tests := map[string]string{
		"garbage":    "not.a.token",
		"wrong key":  wrongKey,
		"expired":    expired,
		"anonymous":  anonToken,
		"no subject": noSubjectToken,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewSecretVerifierRequiresSecret(t *testing.T) {
	_, err := NewSecretVerifier("", discard())
	assert.Error(t, err)
}

func TestAdminClientEnsureUser(t *testing.T) {
	var created []CreateUserRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(ListUsersResponse{Users: []AdminUser{{ID: "u-1", Email: "Existing@example.com"}}})
		case http.MethodPost:
			var req CreateUserRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			created = append(created, req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(AdminUser{ID: "u-2", Email: req.Email})
		}
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL+"/", "service-key")
	ctx := context.Background()

	existing, err := client.EnsureUser(ctx, "existing@example.com", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "u-1", existing.ID)
	assert.Empty(t, created)

	fresh, err := client.EnsureUser(ctx, "new@example.com", "pw", "New Person")
	require.NoError(t, err)
	assert.Equal(t, "u-2", fresh.ID)
	require.Len(t, created, 1)
	assert.True(t, created[0].EmailConfirm)
	assert.Equal(t, "New Person", created[0].UserMetadata["full_name"])

	_, err = client.FindUserByEmail(ctx, "ghost@example.com")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
