package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"loomspace/internal/domain"
	"loomspace/internal/domain/models"
	"loomspace/internal/httputil"
)

type stubVerifier struct {
	tokens map[string]string // token -> user id
}

func (v stubVerifier) VerifyToken(token string) (*models.SupabaseClaims, error) {
	id, ok := v.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	claims := &models.SupabaseClaims{Email: id + "@example.com", Role: "authenticated"}
	claims.Subject = id
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(httputil.GetUserID(r) + "|" + httputil.GetUserEmail(r)))
	})
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(stubVerifier{tokens: map[string]string{"good": "u1"}}, discard())(echoUser())

	tests := []struct {
		name       string
		path       string
		header     map[string]string
		wantStatus int
		wantBody   string
	}{
		{name: "public health", path: "/health", wantStatus: http.StatusOK, wantBody: "|"},
		{name: "missing token", path: "/api/workspaces", wantStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/api/workspaces", header: map[string]string{"Authorization": "Bearer nope"}, wantStatus: http.StatusUnauthorized},
		{name: "bearer token", path: "/api/workspaces", header: map[string]string{"Authorization": "Bearer good"}, wantStatus: http.StatusOK, wantBody: "u1|u1@example.com"},
		{name: "query token ignored for plain requests", path: "/api/workspaces?access_token=good", wantStatus: http.StatusUnauthorized},
		{name: "query token on upgrade", path: "/ws?access_token=good", header: map[string]string{"Upgrade": "websocket"}, wantStatus: http.StatusOK, wantBody: "u1|u1@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRecoveryAndLogger(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})
	h := RequestLogger(discard())(Recovery(discard())(panicking))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/x", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
}
