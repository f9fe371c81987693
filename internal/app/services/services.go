// Package services holds the business workflows. Every entry point checks
// the caller's role, validates its input, and runs its writes inside one
// repositories.Store transaction. Emails and file cleanup happen only after
// the transaction has committed.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// ownOrganization returns the organization owned by an institution account
func ownOrganization(ctx context.Context, repos *repositories.Repositories, actor *models.Account) (*models.Organization, error) {
	if err := auth.RequireRole(actor, models.RoleInstitution); err != nil {
		return nil, err
	}
	org, err := repos.Organizations.GetByOwner(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("no institution is linked to this account")
		}
		return nil, fmt.Errorf("loading institution: %w", err)
	}
	return org, nil
}

// notFound rewrites a bare not-found error with the name of what was missing
func notFound(err error, what string) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(what + " not found")
	}
	return err
}

// parseDate parses an optional date field, reporting a failure on verr
func parseDate(verr *apperrors.ValidationError, field, value string) *time.Time {
	t, err := helpers.ParseOptionalDate(value)
	if err != nil {
		verr.Add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return t
}
