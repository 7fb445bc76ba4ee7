package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"workspace/internal/domain"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// translateWriteError maps constraint violations raised by INSERT/UPDATE
// into domain errors. Other errors are wrapped with op.
func translateWriteError(err error, op string, resourceID string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		switch pgConstraint(err) {
		case oneAllFolderPerUserIndex:
			return &domain.ConflictError{
				Message:      "user already has an \"all\" folder",
				ResourceType: "folder",
				ResourceID:   resourceID,
			}
		case chatPerFolderIndex:
			return &domain.ConflictError{
				Message:      "chat is already in this folder",
				ResourceType: "folder_item",
				ResourceID:   resourceID,
			}
		default:
			return &domain.ConflictError{
				Message:    fmt.Sprintf("%s: duplicate value", op),
				ResourceID: resourceID,
			}
		}
	case pgForeignKeyViolation:
		// The referenced folder disappeared between the ownership check and the write
		if pgConstraint(err) == folderItemsFolderFK {
			return domain.NewNotFoundError("folder not found")
		}
		return domain.NewNotFoundError(fmt.Sprintf("%s: referenced row not found", op))
	case pgCheckViolation:
		return domain.NewValidationError(fmt.Sprintf("%s: check constraint %s violated", op, pgConstraint(err)))
	}
	return fmt.Errorf("%s: %w", op, err)
}
