// Package seed creates the data a fresh deployment needs before first login.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// CreateDefaultAdmin registers the configured admin account. It is a no-op
// when no admin email is configured or an admin already exists, so it is
// safe to run on every start.
func CreateDefaultAdmin(ctx context.Context, admins *services.AdminService, email, password string, lgr zerolog.Logger) error {
	if email == "" {
		lgr.Debug().Msg("No default admin configured, skipping")
		return nil
	}

	account, err := admins.Register(ctx, dto.AdminRegisterRequest{Email: email, Password: password})
	switch {
	case errors.Is(err, apperrors.ErrAdminAlreadyExists):
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	case err != nil:
		lgr.Error().Err(err).Str("email", email).Msg("Error creating default admin user")
		return err
	}

	lgr.Info().Int64("adminID", account.ID).Msg("Default admin user created successfully")
	return nil
}
