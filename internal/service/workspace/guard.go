package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"loomspace/internal/domain"
	models "loomspace/internal/domain/models/workspace"

	"github.com/google/uuid"
)

// guard runs fn and converts its outcome into a Result.
// Errors and panics become the generic failure; empty is the data returned with it.
func guard[T any](ctx context.Context, logger *slog.Logger, op string, empty T, fn func() (T, error)) (res models.Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "panic in persistence operation",
				"op", op,
				"panic", p,
				"stack", string(debug.Stack()),
			)
			res = models.FailWith(empty, fmt.Errorf("%s: panic: %v", op, p))
		}
	}()

	data, err := fn()
	if err != nil {
		logFailure(ctx, logger, op, err)
		return models.FailWith(empty, err)
	}
	return models.OK(data)
}

// logFailure logs expected failures quietly and everything else as an error.
func logFailure(ctx context.Context, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		logger.InfoContext(ctx, "operation rejected", "op", op, "error", err)
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrConflict):
		logger.WarnContext(ctx, "operation refused", "op", op, "error", err)
	default:
		logger.ErrorContext(ctx, "operation failed", "op", op, "error", err)
	}
}

// validateID rejects a malformed identifier before any query is issued.
func validateID(kind, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%s id %q: %w", kind, id, domain.ErrValidation)
	}
	return nil
}

// validateOptionalID accepts an empty id (to be generated) or a well-formed one.
func validateOptionalID(kind, id string) error {
	if id == "" {
		return nil
	}
	return validateID(kind, id)
}

// validateIDs validates every id in turn.
func validateIDs(kind string, ids ...string) error {
	for _, id := range ids {
		if err := validateID(kind, id); err != nil {
			return err
		}
	}
	return nil
}
