package handler

import (
	"net/http"
	"time"

	"loomspace/internal/httputil"
)

// PathParam extracts a required path value, writing a 400 when it is empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// parseBody decodes the request body, writing a 400 on failure.
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// HealthCheck is a simple health check endpoint
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
