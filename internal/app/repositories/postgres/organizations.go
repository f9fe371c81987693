package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusdesk/internal/app/models"
)

var organizationColumns = []string{
	"id", "name", "email", "phone", "website", "registration_no", "establish_date", "address",
	"lat", "lng", "image_url", "banner_url", "owner_account_id", "status", "created_at", "updated_at",
}

type organizationRepo struct {
	base
}

func scanOrganization(row scanner) (*models.Organization, error) {
	o := &models.Organization{}
	err := row.Scan(
		&o.ID, &o.Name, &o.Email, &o.Phone, &o.Website, &o.RegistrationNo, &o.EstablishDate, &o.Address,
		&o.GeoLocation.Lat, &o.GeoLocation.Lng, &o.ImageURL, &o.BannerURL, &o.OwnerAccountID, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// editable holds the columns an institution can change about itself
func (r *organizationRepo) editable(org *models.Organization) map[string]any {
	return map[string]any{
		"name":            org.Name,
		"email":           org.Email,
		"phone":           org.Phone,
		"website":         org.Website,
		"registration_no": org.RegistrationNo,
		"establish_date":  org.EstablishDate,
		"address":         org.Address,
		"lat":             org.GeoLocation.Lat,
		"lng":             org.GeoLocation.Lng,
		"image_url":       org.ImageURL,
		"banner_url":      org.BannerURL,
	}
}

func (r *organizationRepo) Create(ctx context.Context, o *models.Organization) error {
	o.Email = normalizeEmail(o.Email)
	if o.Status == "" {
		o.Status = models.StatusActive
	}

	values := r.editable(o)
	values["owner_account_id"] = o.OwnerAccountID
	values["status"] = o.Status

	q := r.sb.Insert("organizations").SetMap(values).Suffix("RETURNING id, created_at, updated_at")
	return r.get(ctx, "create organization", q, &o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *organizationRepo) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Organization, error) {
	q := r.sb.Select(organizationColumns...).From("organizations").Where(where).Limit(1)
	var out *models.Organization
	err := r.list(ctx, op, q, func(row scanner) error {
		o, err := scanOrganization(row)
		out = o
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, notFound("organization")
	}
	return out, nil
}

func (r *organizationRepo) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	return r.getOne(ctx, "get organization", squirrel.Eq{"id": id})
}

func (r *organizationRepo) GetByOwner(ctx context.Context, accountID int64) (*models.Organization, error) {
	return r.getOne(ctx, "get organization by owner", squirrel.Eq{"owner_account_id": accountID})
}

// Update leaves owner, status and created_at alone
func (r *organizationRepo) Update(ctx context.Context, o *models.Organization) error {
	o.Email = normalizeEmail(o.Email)
	q := r.sb.Update("organizations").
		SetMap(r.editable(o)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID}).
		Suffix("RETURNING owner_account_id, status, created_at, updated_at")
	return r.get(ctx, "update organization", q, &o.OwnerAccountID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
}

func (r *organizationRepo) UpdateStatus(ctx context.Context, id int64, status models.OrganizationStatus) error {
	q := r.sb.Update("organizations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	return r.execOne(ctx, "update organization status", q)
}

func (r *organizationRepo) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete organization", r.sb.Delete("organizations").Where(squirrel.Eq{"id": id}))
}

func (r *organizationRepo) many(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Organization, error) {
	out := []*models.Organization{}
	err := r.list(ctx, op, q, func(row scanner) error {
		o, err := scanOrganization(row)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	return out, err
}

func (r *organizationRepo) List(ctx context.Context, offset uint64, limit int) ([]*models.Organization, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := newestFirst(r.sb.Select(organizationColumns...).From("organizations"), limit).Offset(offset)
	items, err := r.many(ctx, "list organizations", q)
	return items, total, err
}

func (r *organizationRepo) Recent(ctx context.Context, limit int) ([]*models.Organization, error) {
	q := newestFirst(r.sb.Select(organizationColumns...).From("organizations"), limit)
	return r.many(ctx, "recent organizations", q)
}

func (r *organizationRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count organizations", r.sb.Select("COUNT(*)").From("organizations"))
}
