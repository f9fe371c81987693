package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// AdminService registers the single system administrator
type AdminService struct {
	store  repositories.Store
	hasher *auth.PasswordHasher
	logger zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(store repositories.Store, hasher *auth.PasswordHasher, logger zerolog.Logger) *AdminService {
	return &AdminService{store: store, hasher: hasher, logger: logger}
}

// Register creates the admin account. It is the only way to create one,
// and it fails once any admin exists.
func (s *AdminService) Register(ctx context.Context, req dto.AdminRegisterRequest) (*models.Account, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{Email: req.Email, PasswordHash: hash, Role: models.RoleAdmin}
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		exists, err := tx.Accounts.AdminExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrAdminAlreadyExists
		}
		return tx.Accounts.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("accountID", account.ID).Str("email", account.Email).Msg("Admin registered")
	return account, nil
}
