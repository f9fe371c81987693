package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusdesk/internal/app/models"
)

const enrolledStudents = "ARRAY(SELECT e.student_id FROM enrollments e WHERE e.course_id = courses.id ORDER BY e.student_id)"

var courseColumns = []string{
	"id", "name", "duration", "fee", "image_url", "description", "organization_id", "created_at", "updated_at",
	enrolledStudents,
}

type courseRepo struct {
	base
}

func scanCourse(row scanner) (*models.CourseOffering, error) {
	c := &models.CourseOffering{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Duration, &c.Fee, &c.ImageURL, &c.Description, &c.OrganizationID,
		&c.CreatedAt, &c.UpdatedAt, &c.EnrolledStudentIDs,
	)
	if c.EnrolledStudentIDs == nil {
		c.EnrolledStudentIDs = []int64{}
	}
	return c, err
}

func (r *courseRepo) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).From("courses")
}

func (r *courseRepo) many(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.CourseOffering, error) {
	out := []*models.CourseOffering{}
	err := r.list(ctx, op, q, func(row scanner) error {
		c, err := scanCourse(row)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (r *courseRepo) Create(ctx context.Context, c *models.CourseOffering) error {
	q := r.sb.Insert("courses").
		Columns("name", "duration", "fee", "image_url", "description", "organization_id").
		Values(c.Name, c.Duration, c.Fee, c.ImageURL, c.Description, c.OrganizationID).
		Suffix("RETURNING id, created_at, updated_at")
	if err := r.get(ctx, "create course", q, &c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.EnrolledStudentIDs = []int64{}
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	items, err := r.many(ctx, "get course", r.selectCourses().Where(squirrel.Eq{"id": id}).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("course")
	}
	return items[0], nil
}

// GetByIDs keeps the order of ids and skips the missing ones
func (r *courseRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.CourseOffering, error) {
	if len(ids) == 0 {
		return []*models.CourseOffering{}, nil
	}
	found, err := r.many(ctx, "get courses", r.selectCourses().Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.CourseOffering, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*models.CourseOffering, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *courseRepo) Update(ctx context.Context, c *models.CourseOffering) error {
	q := r.sb.Update("courses").
		Set("name", c.Name).
		Set("duration", c.Duration).
		Set("fee", c.Fee).
		Set("image_url", c.ImageURL).
		Set("description", c.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING organization_id, created_at, updated_at, " + enrolledStudents)
	return r.get(ctx, "update course", q, &c.OrganizationID, &c.CreatedAt, &c.UpdatedAt, &c.EnrolledStudentIDs)
}

// Delete drops the course; its enrollment rows cascade
func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete course", r.sb.Delete("courses").Where(squirrel.Eq{"id": id}))
}

func (r *courseRepo) ListByOrganization(ctx context.Context, orgID int64) ([]*models.CourseOffering, error) {
	return r.RecentByOrganization(ctx, orgID, 0)
}

func (r *courseRepo) RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.CourseOffering, error) {
	q := newestFirst(r.selectCourses().Where(squirrel.Eq{"organization_id": orgID}), limit)
	return r.many(ctx, "list courses", q)
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count courses", r.sb.Select("COUNT(*)").From("courses"))
}

func (r *courseRepo) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	q := r.sb.Select("COUNT(*)").From("courses").Where(squirrel.Eq{"organization_id": orgID})
	return r.count(ctx, "count organization courses", q)
}
