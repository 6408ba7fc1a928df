package httputil

import (
	"net/http"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"
)

// RespondResult writes a persistence Result as its {data, error} envelope.
// The status comes from the failure's classified cause; success uses okStatus.
func RespondResult[T any](w http.ResponseWriter, okStatus int, res models.Result[T]) {
	if res.Failed() {
		status := domain.StatusFor(res.Cause())
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		RespondJSON(w, status, res)
		return
	}
	RespondJSON(w, okStatus, res)
}
