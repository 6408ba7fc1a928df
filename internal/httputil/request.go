package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"loomspace/internal/domain"
)

// MaxBodyBytes bounds request bodies. Document bodies travel as delta JSON in
// the data column, so this is well above any single entity.
const MaxBodyBytes = 10 << 20

// ParseJSON decodes exactly one JSON value from the request body into dest.
// Unknown fields are ignored so older clients keep working against newer
// entities. Failures wrap domain.ErrValidation.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body: %w", domain.ErrValidation)
		}
		return fmt.Errorf("invalid JSON: %v: %w", err, domain.ErrValidation)
	}
	if decoder.More() {
		return fmt.Errorf("unexpected data after JSON body: %w", domain.ErrValidation)
	}
	return nil
}
