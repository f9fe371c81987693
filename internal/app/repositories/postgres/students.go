package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusdesk/internal/app/models"
)

const enrolledCourses = "ARRAY(SELECT e.course_id FROM enrollments e WHERE e.student_id = students.id ORDER BY e.course_id)"

var studentColumns = []string{
	"id", "external_student_id", "name", "email", "phone", "father_name", "blood_group", "dob",
	"admission_date", "photo_url", "signature_url", "organization_id", "account_id", "created_at", "updated_at",
	enrolledCourses,
}

type studentRepo struct {
	base
}

func scanStudent(row scanner) (*models.StudentProfile, error) {
	s := &models.StudentProfile{}
	err := row.Scan(
		&s.ID, &s.ExternalStudentID, &s.Name, &s.Email, &s.Phone, &s.FatherName, &s.BloodGroup, &s.DOB,
		&s.AdmissionDate, &s.PhotoURL, &s.SignatureURL, &s.OrganizationID, &s.AccountID,
		&s.CreatedAt, &s.UpdatedAt, &s.EnrolledCourseIDs,
	)
	if s.EnrolledCourseIDs == nil {
		s.EnrolledCourseIDs = []int64{}
	}
	return s, err
}

func studentValues(s *models.StudentProfile) map[string]any {
	values := map[string]any{
		"external_student_id": s.ExternalStudentID,
		"name":                s.Name,
		"email":               s.Email,
		"phone":               s.Phone,
		"father_name":         s.FatherName,
		"blood_group":         s.BloodGroup,
		"dob":                 s.DOB,
		"photo_url":           s.PhotoURL,
		"signature_url":       s.SignatureURL,
	}
	// a zero admission date keeps the column default (or current value)
	if !s.AdmissionDate.IsZero() {
		values["admission_date"] = s.AdmissionDate
	}
	return values
}

func (r *studentRepo) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From("students")
}

func (r *studentRepo) many(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.StudentProfile, error) {
	out := []*models.StudentProfile{}
	err := r.list(ctx, op, q, func(row scanner) error {
		s, err := scanStudent(row)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (r *studentRepo) one(ctx context.Context, op string, where squirrel.Sqlizer) (*models.StudentProfile, error) {
	items, err := r.many(ctx, op, r.selectStudents().Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("student")
	}
	return items[0], nil
}

func (r *studentRepo) Create(ctx context.Context, s *models.StudentProfile) error {
	s.Email = normalizeEmail(s.Email)
	values := studentValues(s)
	values["organization_id"] = s.OrganizationID
	values["account_id"] = s.AccountID

	q := r.sb.Insert("students").SetMap(values).Suffix("RETURNING id, admission_date, created_at, updated_at")
	if err := r.get(ctx, "create student", q, &s.ID, &s.AdmissionDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.EnrolledCourseIDs = []int64{}
	return nil
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return r.one(ctx, "get student", squirrel.Eq{"id": id})
}

func (r *studentRepo) GetByAccount(ctx context.Context, accountID int64) (*models.StudentProfile, error) {
	return r.one(ctx, "get student by account", squirrel.Eq{"account_id": accountID})
}

// Update leaves organization, account and created_at alone
func (r *studentRepo) Update(ctx context.Context, s *models.StudentProfile) error {
	s.Email = normalizeEmail(s.Email)
	q := r.sb.Update("students").
		SetMap(studentValues(s)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING organization_id, account_id, admission_date, created_at, updated_at, " + enrolledCourses)
	return r.get(ctx, "update student", q,
		&s.OrganizationID, &s.AccountID, &s.AdmissionDate, &s.CreatedAt, &s.UpdatedAt, &s.EnrolledCourseIDs)
}

// Delete drops the profile; its enrollment rows cascade
func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete student", r.sb.Delete("students").Where(squirrel.Eq{"id": id}))
}

// scoped treats orgID 0 as every organization
func scoped(q squirrel.SelectBuilder, orgID int64) squirrel.SelectBuilder {
	if orgID == 0 {
		return q
	}
	return q.Where(squirrel.Eq{"organization_id": orgID})
}

func (r *studentRepo) ListByOrganization(ctx context.Context, orgID int64, offset uint64, limit int) ([]*models.StudentProfile, int64, error) {
	total, err := r.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, 0, err
	}
	q := newestFirst(scoped(r.selectStudents(), orgID), limit).Offset(offset)
	items, err := r.many(ctx, "list students", q)
	return items, total, err
}

func (r *studentRepo) AllByOrganization(ctx context.Context, orgID int64) ([]*models.StudentProfile, error) {
	return r.RecentByOrganization(ctx, orgID, 0)
}

func (r *studentRepo) Recent(ctx context.Context, limit int) ([]*models.StudentProfile, error) {
	return r.RecentByOrganization(ctx, 0, limit)
}

func (r *studentRepo) RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.StudentProfile, error) {
	return r.many(ctx, "recent students", newestFirst(scoped(r.selectStudents(), orgID), limit))
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	return r.CountByOrganization(ctx, 0)
}

func (r *studentRepo) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	return r.count(ctx, "count students", scoped(r.sb.Select("COUNT(*)").From("students"), orgID))
}
