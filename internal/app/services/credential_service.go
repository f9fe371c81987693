package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/notify"
	"github.com/yigit/campusdesk/internal/pkg/auth"
)

// CredentialIssuer generates one-time passwords and hands them to the
// notifier once the owning account has been committed.
type CredentialIssuer struct {
	hasher   *auth.PasswordHasher
	length   int
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewCredentialIssuer creates a CredentialIssuer. Lengths below
// auth.MinPasswordLength are raised to it.
func NewCredentialIssuer(hasher *auth.PasswordHasher, length int, notifier notify.Notifier, logger zerolog.Logger) *CredentialIssuer {
	if length < auth.MinPasswordLength {
		length = auth.MinPasswordLength
	}
	return &CredentialIssuer{
		hasher:   hasher,
		length:   length,
		notifier: notifier,
		logger:   logger,
	}
}

// Issue returns fresh credentials for email and the hash to persist
func (c *CredentialIssuer) Issue(email string) (models.Credentials, string, error) {
	password, err := auth.GeneratePassword(c.length)
	if err != nil {
		return models.Credentials{}, "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := c.hasher.Hash(password)
	if err != nil {
		return models.Credentials{}, "", err
	}
	return models.Credentials{Email: email, Password: password}, hash, nil
}

// Deliver queues the credentials email. It never fails the caller: the
// account already exists, so a lost email is only logged.
func (c *CredentialIssuer) Deliver(ctx context.Context, name string, role models.Role, creds models.Credentials) {
	err := c.notifier.NotifyCredentials(ctx, notify.CredentialNotice{
		Name:     name,
		Email:    creds.Email,
		Password: creds.Password,
		Role:     role,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("email", creds.Email).Msg("Failed to queue credentials email")
	}
}
