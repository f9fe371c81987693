package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type organizationRepo struct {
	a   access
	now func() time.Time
}

func orgEmailTaken(st *state, email string, exceptID int64) bool {
	for _, o := range st.orgs {
		if o.ID != exceptID && o.Email == email {
			return true
		}
	}
	return false
}

func (r *organizationRepo) Create(ctx context.Context, o *models.Organization) error {
	return r.a.write(ctx, func(st *state) error {
		email := normalizeEmail(o.Email)
		if orgEmailTaken(st, email, 0) {
			return apperrors.ErrEmailAlreadyExists
		}
		if _, ok := st.accounts[o.OwnerAccountID]; !ok {
			return apperrors.ErrResourceNotFound
		}

		st.seqOrg++
		now := r.now()
		o.ID = st.seqOrg
		o.Email = email
		if o.Status == "" {
			o.Status = models.StatusActive
		}
		o.CreatedAt, o.UpdatedAt = now, now
		st.orgs[o.ID] = copyOrganization(o)
		return nil
	})
}

func (r *organizationRepo) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	var out *models.Organization
	err := r.a.read(ctx, func(st *state) error {
		o, ok := st.orgs[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		out = copyOrganization(o)
		return nil
	})
	return out, err
}

func (r *organizationRepo) GetByOwner(ctx context.Context, accountID int64) (*models.Organization, error) {
	var out *models.Organization
	err := r.a.read(ctx, func(st *state) error {
		for _, o := range st.orgs {
			if o.OwnerAccountID == accountID {
				out = copyOrganization(o)
				return nil
			}
		}
		return apperrors.ErrResourceNotFound
	})
	return out, err
}

func (r *organizationRepo) Update(ctx context.Context, o *models.Organization) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.orgs[o.ID]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		email := normalizeEmail(o.Email)
		if orgEmailTaken(st, email, o.ID) {
			return apperrors.ErrEmailAlreadyExists
		}

		o.Email = email
		o.OwnerAccountID = cur.OwnerAccountID
		o.Status = cur.Status
		o.CreatedAt = cur.CreatedAt
		o.UpdatedAt = r.now()
		st.orgs[o.ID] = copyOrganization(o)
		return nil
	})
}

func (r *organizationRepo) UpdateStatus(ctx context.Context, id int64, status models.OrganizationStatus) error {
	return r.a.write(ctx, func(st *state) error {
		o, ok := st.orgs[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		o.Status = status
		o.UpdatedAt = r.now()
		return nil
	})
}

func (r *organizationRepo) Delete(ctx context.Context, id int64) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.orgs[id]; !ok {
			return apperrors.ErrResourceNotFound
		}
		delete(st.orgs, id)
		return nil
	})
}

func (r *organizationRepo) sorted(st *state) []*models.Organization {
	out := make([]*models.Organization, 0, len(st.orgs))
	for _, o := range st.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func copyOrganizations(in []*models.Organization) []*models.Organization {
	out := make([]*models.Organization, len(in))
	for i, o := range in {
		out[i] = copyOrganization(o)
	}
	return out
}

func (r *organizationRepo) List(ctx context.Context, offset uint64, limit int) ([]*models.Organization, int64, error) {
	var (
		out   []*models.Organization
		total int64
	)
	err := r.a.read(ctx, func(st *state) error {
		all := r.sorted(st)
		total = int64(len(all))
		out = copyOrganizations(page(all, offset, limit))
		return nil
	})
	return out, total, err
}

func (r *organizationRepo) Recent(ctx context.Context, limit int) ([]*models.Organization, error) {
	var out []*models.Organization
	err := r.a.read(ctx, func(st *state) error {
		out = copyOrganizations(recent(r.sorted(st), limit))
		return nil
	})
	return out, err
}

func (r *organizationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.a.read(ctx, func(st *state) error {
		n = int64(len(st.orgs))
		return nil
	})
	return n, err
}
