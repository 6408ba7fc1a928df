package httputil

import (
	"encoding/json"
	"net/http"

	models "loomspace/internal/domain/models/workspace"
)

// RespondJSON writes a JSON response with the given status code.
// The body is marshaled before headers are sent so an encoding failure still
// produces a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// Problem is an RFC 7807 body that also decodes as a failed {data, error}
// envelope. Error is always the generic persistence error text.
type Problem struct {
	Type   string      `json:"type"`
	Title  string      `json:"title"`
	Status int         `json:"status"`
	Detail string      `json:"detail,omitempty"`
	Data   interface{} `json:"data"`
	Error  string      `json:"error"`
}

// NewProblem builds the problem body for status.
func NewProblem(status int, detail string) Problem {
	return Problem{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Error:  models.GenericError,
	}
}

// RespondError writes a failure that is not tied to a persistence Result:
// bad paths and bodies, auth rejections and panics.
func RespondError(w http.ResponseWriter, status int, detail string) {
	payload, err := json.Marshal(NewProblem(status, detail))
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	w.Write(payload)
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1"
	case http.StatusUnauthorized:
		return "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1"
	case http.StatusForbidden:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3"
	case http.StatusNotFound:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4"
	case http.StatusConflict:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8"
	case http.StatusInternalServerError:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1"
	default:
		return "about:blank"
	}
}
