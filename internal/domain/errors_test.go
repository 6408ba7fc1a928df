package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"wrapped validation", fmt.Errorf("title: %w", ErrValidation), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("folder x: %w", ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("access denied: %w", ErrForbidden), http.StatusForbidden},
		{"typed conflict", &ConflictError{Message: "dup", ResourceType: "collaborator"}, http.StatusConflict},
		{"typed not found", &NotFoundError{Message: "gone"}, http.StatusNotFound},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	if !errors.Is(&ConflictError{}, ErrConflict) {
		t.Error("ConflictError should match ErrConflict")
	}
	if !errors.Is(fmt.Errorf("wrap: %w", &ValidationError{Message: "bad"}), ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}
}

func TestErrorForStatusRoundTrip(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusForbidden, http.StatusConflict, http.StatusUnauthorized} {
		if got := StatusFor(ErrorForStatus(status)); got != status {
			t.Errorf("status %d round-tripped to %d", status, got)
		}
	}
}
