package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// AuthService handles login, logout and profiles for all three roles
type AuthService struct {
	store      repositories.Store
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	gate       *appauth.Gate
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repositories.Store,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	gate *appauth.Gate,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		hasher:     hasher,
		jwtService: jwtService,
		gate:       gate,
		logger:     logger,
	}
}

// Login authenticates an account of the given role. Unknown emails, wrong
// passwords and role mismatches all look the same to the caller.
func (s *AuthService) Login(ctx context.Context, role models.Role, req dto.LoginRequest) (*dto.LoginResult, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	account, err := repos.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if account.Role != role || !s.hasher.Check(account.PasswordHash, req.Password) {
		s.logger.Debug().Str("email", account.Email).Str("role", string(role)).Msg("Login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	if role == models.RoleInstitution {
		org, err := repos.Organizations.GetByOwner(ctx, account.ID)
		if err != nil {
			return nil, notFound(err, "institution")
		}
		if !org.IsActive() {
			return nil, apperrors.ErrAccountDisabled
		}
	}

	token, err := s.jwtService.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	s.logger.Info().Int64("accountID", account.ID).Str("role", string(role)).Msg("Login succeeded")
	return &dto.LoginResult{
		Token:     token,
		ExpiresIn: int64(s.jwtService.ExpiresIn().Seconds()),
		Account:   account,
	}, nil
}

// Logout revokes the token the request was authenticated with
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.gate.Revoke(ctx, claims)
}

// Profile returns the account with whatever profile its role links to
func (s *AuthService) Profile(ctx context.Context, account *models.Account) (*dto.ProfileResponse, error) {
	repos := s.store.Repositories()
	resp := &dto.ProfileResponse{Account: account}

	switch account.Role {
	case models.RoleInstitution:
		org, err := repos.Organizations.GetByOwner(ctx, account.ID)
		if err != nil {
			return nil, notFound(err, "institution")
		}
		resp.Organization = org

	case models.RoleStudent:
		student, err := repos.Students.GetByAccount(ctx, account.ID)
		if err != nil {
			return nil, notFound(err, "student")
		}
		courses, err := repos.Courses.GetByIDs(ctx, student.EnrolledCourseIDs)
		if err != nil {
			return nil, err
		}
		resp.Student = student
		resp.Courses = courses
	}

	return resp, nil
}
