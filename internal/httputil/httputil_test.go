package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

func TestRespondErrorDecodesAsFailedResult(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusForbidden, "not a collaborator")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var res models.Result[*models.Workspace]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Failed())
	assert.Equal(t, models.GenericError, res.Error)
	assert.Nil(t, res.Data)

	var problem Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Forbidden", problem.Title)
	assert.Equal(t, "not a collaborator", problem.Detail)
}

func TestRespondResultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondResult(rec, http.StatusCreated, models.OK(&models.Folder{ID: "f1"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":`+mustJSON(t, &models.Folder{ID: "f1"})+`}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondResult(rec, http.StatusOK, models.Fail[*models.Folder](domain.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":"Error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondResult(rec, http.StatusOK, models.Fail[*models.Folder](errors.New("pool exhausted")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"object", `{"title":"Notes"}`, false},
		{"unknown fields ignored", `{"title":"Notes","color":"red"}`, false},
		{"empty", ``, true},
		{"malformed", `{"title":`, true},
		{"trailing value", `{"title":"a"} {"title":"b"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/workspaces", strings.NewReader(tt.body))
			var dest struct {
				Title string `json:"title"`
			}
			err := ParseJSON(httptest.NewRecorder(), req, &dest)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Notes", dest.Title)
		})
	}
}

func TestUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(req))

	req = WithUser(req, "u1", "ada@example.com")
	assert.Equal(t, "u1", GetUserID(req))
	assert.Equal(t, "u1", UserIDFrom(req.Context()))
	assert.Equal(t, "ada@example.com", GetUserEmail(req))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
