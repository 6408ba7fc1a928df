package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"loomspace/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == "23505"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == "23503"
}

// IsPgInvalidTextError checks for invalid_text_representation (e.g. a malformed uuid)
func IsPgInvalidTextError(err error) bool {
	return pgCode(err) == "22P02"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Classify wraps a query error with the matching domain sentinel.
// resource names the row for messages, e.g. "folder 1234".
func Classify(err error, op, resource string) error {
	switch {
	case err == nil:
		return nil
	case IsPgNoRowsError(err):
		return fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s: parent does not exist: %w", resource, domain.ErrValidation)
	case IsPgInvalidTextError(err):
		return fmt.Errorf("%s: %w", resource, domain.ErrValidation)
	case IsPgDuplicateError(err):
		return fmt.Errorf("%s: %w", resource, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
