package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func TestMap(t *testing.T) {
	unique := func(constraint string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint})
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrResourceNotFound},
		{"account email", unique(ConstraintAccountEmail), apperrors.ErrEmailAlreadyExists},
		{"student email", unique(ConstraintStudentEmail), apperrors.ErrEmailAlreadyExists},
		{"second admin", unique(ConstraintSingleAdmin), apperrors.ErrAdminAlreadyExists},
		{"duplicate edge", unique(ConstraintEnrollment), apperrors.ErrAlreadyEnrolled},
		{"other unique", unique("something_else_key"), apperrors.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apperrors.ErrResourceNotFound},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "courses_fee_check"}, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Map(tt.err), tt.want)
		})
	}
}

func TestMap_PassesThrough(t *testing.T) {
	assert.NoError(t, Map(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, Map(plain))

	canceled := &pgconn.PgError{Code: pgerrcode.QueryCanceled}
	assert.ErrorIs(t, Map(canceled), canceled)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(Map(canceled)))
}
