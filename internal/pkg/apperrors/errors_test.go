package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError().Add("email", "email is required"), KindValidation},
		{"email taken", fmt.Errorf("create account: %w", ErrEmailAlreadyExists), KindConflict},
		{"admin exists", ErrAdminAlreadyExists, KindConflict},
		{"not found", NewResourceNotFoundError("course not found"), KindNotFound},
		{"expired", ErrTokenExpired, KindUnauthenticated},
		{"revoked", fmt.Errorf("auth: %w", ErrTokenRevoked), KindUnauthenticated},
		{"forbidden", NewForbiddenError("other institution"), KindForbidden},
		{"disabled", ErrAccountDisabled, KindForbidden},
		{"storage", NewStorageError("upload photo", errors.New("disk full")), KindStorage},
		{"delivery", NewDeliveryError("smtp", errors.New("timeout")), KindDelivery},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCustomErrorKeepsCause(t *testing.T) {
	cause := errors.New("bucket missing")
	err := NewStorageError("failed to store photo", cause)

	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to store photo: bucket missing", err.Error())

	var ce *CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "failed to store photo", ce.PublicMessage())
}

func TestValidationErrorCollectsAllFields(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.ErrOrNil())

	verr.Add("email", "email must be a valid email address").
		Add("phone", "phone must be exactly 10 digits")
	verr.Merge(NewValidationError().Add("photo", "photo is required"))

	err := verr.ErrOrNil()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Len(t, verr.Fields, 3)
	assert.True(t, verr.HasField("photo"))
	assert.False(t, verr.HasField("name"))
	assert.Contains(t, err.Error(), "phone: phone must be exactly 10 digits")
}
