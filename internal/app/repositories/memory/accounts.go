package memory

import (
	"context"
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type accountRepo struct {
	a   access
	now func() time.Time
}

func emailTaken(st *state, email string, exceptID int64) bool {
	for _, acc := range st.accounts {
		if acc.ID != exceptID && acc.Email == email {
			return true
		}
	}
	return false
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	return r.a.write(ctx, func(st *state) error {
		email := normalizeEmail(a.Email)
		if emailTaken(st, email, 0) {
			return apperrors.ErrEmailAlreadyExists
		}
		if a.Role == models.RoleAdmin {
			for _, acc := range st.accounts {
				if acc.Role == models.RoleAdmin {
					return apperrors.ErrAdminAlreadyExists
				}
			}
		}

		st.seqAccount++
		now := r.now()
		a.ID = st.seqAccount
		a.Email = email
		a.CreatedAt, a.UpdatedAt = now, now
		st.accounts[a.ID] = copyAccount(a)
		return nil
	})
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var out *models.Account
	err := r.a.read(ctx, func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		out = copyAccount(acc)
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = normalizeEmail(email)
	var out *models.Account
	err := r.a.read(ctx, func(st *state) error {
		for _, acc := range st.accounts {
			if acc.Email == email {
				out = copyAccount(acc)
				return nil
			}
		}
		return apperrors.ErrResourceNotFound
	})
	return out, err
}

func (r *accountRepo) update(ctx context.Context, id int64, fn func(st *state, acc *models.Account) error) error {
	return r.a.write(ctx, func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		if err := fn(st, acc); err != nil {
			return err
		}
		acc.UpdatedAt = r.now()
		return nil
	})
}

func (r *accountRepo) LinkProfile(ctx context.Context, accountID, profileID int64) error {
	return r.update(ctx, accountID, func(_ *state, acc *models.Account) error {
		acc.LinkedProfileID = &profileID
		return nil
	})
}

func (r *accountRepo) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	return r.update(ctx, accountID, func(_ *state, acc *models.Account) error {
		acc.PasswordHash = passwordHash
		return nil
	})
}

func (r *accountRepo) UpdateEmail(ctx context.Context, accountID int64, email string) error {
	email = normalizeEmail(email)
	return r.update(ctx, accountID, func(st *state, acc *models.Account) error {
		if emailTaken(st, email, accountID) {
			return apperrors.ErrEmailAlreadyExists
		}
		acc.Email = email
		return nil
	})
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.accounts[id]; !ok {
			return apperrors.ErrResourceNotFound
		}
		delete(st.accounts, id)
		return nil
	})
}

func (r *accountRepo) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.a.read(ctx, func(st *state) error {
		for _, acc := range st.accounts {
			if acc.Role == models.RoleAdmin {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}
