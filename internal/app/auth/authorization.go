// Package auth is the access control gate: it turns a bearer token into a
// live account and answers role and tenancy questions about it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	pkgauth "github.com/yigit/campusdesk/internal/pkg/auth"
)

// Gate authenticates tokens against the identity store
type Gate struct {
	jwt     *pkgauth.JWTService
	revoked pkgauth.RevocationStore
	repos   *repositories.Repositories
	logger  zerolog.Logger
}

// NewGate creates a Gate
func NewGate(jwt *pkgauth.JWTService, revoked pkgauth.RevocationStore, repos *repositories.Repositories, logger zerolog.Logger) *Gate {
	return &Gate{
		jwt:     jwt,
		revoked: revoked,
		repos:   repos,
		logger:  logger.With().Str("component", "gate").Logger(),
	}
}

// Authenticate verifies the token and resolves the account it was issued to.
// Revoked tokens, deleted accounts and role mismatches are all rejected.
func (g *Gate) Authenticate(ctx context.Context, token string) (*models.Account, *pkgauth.Claims, error) {
	claims, err := g.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	if claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			g.logger.Error().Err(err).Msg("Token revocation lookup failed")
			return nil, nil, fmt.Errorf("checking token revocation: %w", err)
		}
		if revoked {
			return nil, nil, apperrors.ErrTokenRevoked
		}
	}

	account, err := g.repos.Accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil, apperrors.ErrTokenInvalid
		}
		return nil, nil, err
	}
	if account.Role != claims.Role {
		return nil, nil, apperrors.ErrTokenInvalid
	}

	if account.Role == models.RoleInstitution {
		org, err := g.repos.Organizations.GetByOwner(ctx, account.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, nil, apperrors.ErrTokenInvalid
			}
			return nil, nil, err
		}
		if !org.IsActive() {
			return nil, nil, apperrors.ErrAccountDisabled
		}
	}

	return account, claims, nil
}

// Revoke blacklists the token until it would have expired anyway
func (g *Gate) Revoke(ctx context.Context, claims *pkgauth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := g.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	g.logger.Debug().Int64("accountID", claims.AccountID).Msg("Token revoked")
	return nil
}

// RequireRole fails with a forbidden error unless account has one of roles
func RequireRole(account *models.Account, roles ...models.Role) error {
	if account == nil {
		return apperrors.ErrTokenInvalid
	}
	for _, role := range roles {
		if account.Role == role {
			return nil
		}
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("role %s cannot perform this action", account.Role))
}

// RequireOrganization fails with a forbidden error when a resource belongs to
// another organization.
func RequireOrganization(org *models.Organization, resourceOrgID int64) error {
	if org == nil || org.ID != resourceOrgID {
		return apperrors.NewForbiddenError("resource belongs to another institution")
	}
	return nil
}
