package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/repositories/memory"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	pkgauth "github.com/yigit/campusdesk/internal/pkg/auth"
)

type gateFixture struct {
	gate  *Gate
	jwt   *pkgauth.JWTService
	store *memory.Store
}

func newGateFixture(t *testing.T) gateFixture {
	t.Helper()
	store := memory.New()
	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	gate := NewGate(jwt, pkgauth.NewMemoryRevocationStore(), store.Repositories(), zerolog.Nop())
	return gateFixture{gate: gate, jwt: jwt, store: store}
}

func (f gateFixture) account(t *testing.T, email string, role models.Role) (*models.Account, string) {
	t.Helper()
	acc := &models.Account{Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, f.store.Repositories().Accounts.Create(context.Background(), acc))
	token, err := f.jwt.GenerateAccessToken(acc)
	require.NoError(t, err)
	return acc, token
}

func TestGate_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	acc, token := f.account(t, "student@school.test", models.RoleStudent)

	got, claims, err := f.gate.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestGate_RejectsRevokedToken(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	_, token := f.account(t, "student@school.test", models.RoleStudent)

	_, claims, err := f.gate.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.gate.Revoke(ctx, claims))

	_, _, err = f.gate.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestGate_RejectsDeletedAccount(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	acc, token := f.account(t, "gone@school.test", models.RoleStudent)
	require.NoError(t, f.store.Repositories().Accounts.Delete(ctx, acc.ID))

	_, _, err := f.gate.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestGate_RejectsGarbage(t *testing.T) {
	f := newGateFixture(t)
	_, _, err := f.gate.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGate_InactiveInstitution(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	acc, token := f.account(t, "owner@school.test", models.RoleInstitution)

	org := &models.Organization{Name: "School", Email: "owner@school.test", Phone: "0123456789", ImageURL: "/i.png", OwnerAccountID: acc.ID}
	require.NoError(t, f.store.Repositories().Organizations.Create(ctx, org))

	_, _, err := f.gate.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, f.store.Repositories().Organizations.UpdateStatus(ctx, org.ID, models.StatusInactive))
	_, _, err = f.gate.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRequireRole(t *testing.T) {
	admin := &models.Account{ID: 1, Role: models.RoleAdmin}

	assert.NoError(t, RequireRole(admin, models.RoleAdmin))
	assert.NoError(t, RequireRole(admin, models.RoleInstitution, models.RoleAdmin))

	err := RequireRole(admin, models.RoleInstitution)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	assert.ErrorIs(t, RequireRole(nil, models.RoleAdmin), apperrors.ErrTokenInvalid)
}

func TestRequireOrganization(t *testing.T) {
	org := &models.Organization{ID: 7}

	assert.NoError(t, RequireOrganization(org, 7))
	assert.ErrorIs(t, RequireOrganization(org, 8), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, RequireOrganization(nil, 7), apperrors.ErrPermissionDenied)
}
