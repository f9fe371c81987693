package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// Unique constraints declared by the schema migrations.
const (
	ConstraintAccountEmail      = "accounts_email_key"
	ConstraintSingleAdmin       = "accounts_single_admin"
	ConstraintOrganizationEmail = "organizations_email_key"
	ConstraintStudentEmail      = "students_email_key"
	ConstraintStudentAccount    = "students_account_id_key"
	ConstraintEnrollment        = "enrollments_pkey"
)

// Map translates driver errors into application sentinels. Errors it does
// not recognize are returned unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrResourceNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case ConstraintAccountEmail, ConstraintOrganizationEmail, ConstraintStudentEmail:
			return apperrors.ErrEmailAlreadyExists
		case ConstraintSingleAdmin:
			return apperrors.ErrAdminAlreadyExists
		case ConstraintEnrollment:
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, apperrors.ErrConflict)

	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrResourceNotFound, pgErr.Detail)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("%w: check constraint %s", apperrors.ErrValidationFailed, pgErr.ConstraintName)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled or timed out: %w", err)
	}

	return err
}
