package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusdesk/internal/app/models"
)

var accountColumns = []string{"id", "email", "password_hash", "role", "linked_profile_id", "created_at", "updated_at"}

type accountRepo struct {
	base
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	a.Email = normalizeEmail(a.Email)
	q := r.sb.Insert("accounts").
		Columns("email", "password_hash", "role", "linked_profile_id").
		Values(a.Email, a.PasswordHash, a.Role, a.LinkedProfileID).
		Suffix("RETURNING id, created_at, updated_at")
	return r.get(ctx, "create account", q, &a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *accountRepo) getBy(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Account, error) {
	q := r.sb.Select(accountColumns...).From("accounts").Where(where).Limit(1)
	a := &models.Account{}
	if err := r.get(ctx, op, q, &a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.LinkedProfileID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.getBy(ctx, "get account", squirrel.Eq{"id": id})
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getBy(ctx, "get account by email", squirrel.Eq{"email": normalizeEmail(email)})
}

func (r *accountRepo) set(ctx context.Context, op string, id int64, values map[string]any) error {
	q := r.sb.Update("accounts").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	return r.execOne(ctx, op, q)
}

func (r *accountRepo) LinkProfile(ctx context.Context, accountID, profileID int64) error {
	return r.set(ctx, "link profile", accountID, map[string]any{"linked_profile_id": profileID})
}

func (r *accountRepo) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	return r.set(ctx, "update password", accountID, map[string]any{"password_hash": passwordHash})
}

func (r *accountRepo) UpdateEmail(ctx context.Context, accountID int64, email string) error {
	return r.set(ctx, "update account email", accountID, map[string]any{"email": normalizeEmail(email)})
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete account", r.sb.Delete("accounts").Where(squirrel.Eq{"id": id}))
}

func (r *accountRepo) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	q := r.sb.Select("EXISTS(SELECT 1 FROM accounts WHERE role = 'admin')")
	err := r.get(ctx, "check admin", q, &exists)
	return exists, err
}
