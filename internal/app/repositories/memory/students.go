package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type studentRepo struct {
	a   access
	now func() time.Time
}

func readStudent(st *state, s *models.StudentProfile) *models.StudentProfile {
	out := copyStudent(s)
	out.EnrolledCourseIDs = st.studentCourses.sorted(s.ID)
	return out
}

func studentEmailTaken(st *state, email string, exceptID int64) bool {
	for _, s := range st.students {
		if s.ID != exceptID && s.Email == email {
			return true
		}
	}
	return false
}

func (r *studentRepo) Create(ctx context.Context, s *models.StudentProfile) error {
	return r.a.write(ctx, func(st *state) error {
		email := normalizeEmail(s.Email)
		if studentEmailTaken(st, email, 0) {
			return apperrors.ErrEmailAlreadyExists
		}
		if _, ok := st.orgs[s.OrganizationID]; !ok {
			return apperrors.ErrResourceNotFound
		}
		if _, ok := st.accounts[s.AccountID]; !ok {
			return apperrors.ErrResourceNotFound
		}
		for _, other := range st.students {
			if other.AccountID == s.AccountID {
				return apperrors.NewConflictError("account already has a student profile")
			}
		}

		st.seqStudent++
		now := r.now()
		s.ID = st.seqStudent
		s.Email = email
		if s.AdmissionDate.IsZero() {
			s.AdmissionDate = now
		}
		s.CreatedAt, s.UpdatedAt = now, now
		s.EnrolledCourseIDs = []int64{}
		st.students[s.ID] = copyStudent(s)
		return nil
	})
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	var out *models.StudentProfile
	err := r.a.read(ctx, func(st *state) error {
		s, ok := st.students[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		out = readStudent(st, s)
		return nil
	})
	return out, err
}

func (r *studentRepo) GetByAccount(ctx context.Context, accountID int64) (*models.StudentProfile, error) {
	var out *models.StudentProfile
	err := r.a.read(ctx, func(st *state) error {
		for _, s := range st.students {
			if s.AccountID == accountID {
				out = readStudent(st, s)
				return nil
			}
		}
		return apperrors.ErrResourceNotFound
	})
	return out, err
}

func (r *studentRepo) Update(ctx context.Context, s *models.StudentProfile) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.students[s.ID]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		email := normalizeEmail(s.Email)
		if studentEmailTaken(st, email, s.ID) {
			return apperrors.ErrEmailAlreadyExists
		}

		s.Email = email
		s.OrganizationID = cur.OrganizationID
		s.AccountID = cur.AccountID
		s.CreatedAt = cur.CreatedAt
		if s.AdmissionDate.IsZero() {
			s.AdmissionDate = cur.AdmissionDate
		}
		s.UpdatedAt = r.now()
		st.students[s.ID] = copyStudent(s)
		s.EnrolledCourseIDs = st.studentCourses.sorted(s.ID)
		return nil
	})
}

func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.students[id]; !ok {
			return apperrors.ErrResourceNotFound
		}
		delete(st.students, id)
		// edges go with the row, like ON DELETE CASCADE
		for other := range st.studentCourses[id] {
			st.courseStudents.remove(other, id)
		}
		delete(st.studentCourses, id)
		return nil
	})
}

func (r *studentRepo) filtered(st *state, orgID int64) []*models.StudentProfile {
	var out []*models.StudentProfile
	for _, s := range st.students {
		if orgID == 0 || s.OrganizationID == orgID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func readStudents(st *state, in []*models.StudentProfile) []*models.StudentProfile {
	out := make([]*models.StudentProfile, len(in))
	for i, s := range in {
		out[i] = readStudent(st, s)
	}
	return out
}

func (r *studentRepo) ListByOrganization(ctx context.Context, orgID int64, offset uint64, limit int) ([]*models.StudentProfile, int64, error) {
	var (
		out   []*models.StudentProfile
		total int64
	)
	err := r.a.read(ctx, func(st *state) error {
		all := r.filtered(st, orgID)
		total = int64(len(all))
		out = readStudents(st, page(all, offset, limit))
		return nil
	})
	return out, total, err
}

func (r *studentRepo) AllByOrganization(ctx context.Context, orgID int64) ([]*models.StudentProfile, error) {
	return r.RecentByOrganization(ctx, orgID, 0)
}

func (r *studentRepo) Recent(ctx context.Context, limit int) ([]*models.StudentProfile, error) {
	return r.RecentByOrganization(ctx, 0, limit)
}

// RecentByOrganization treats orgID 0 as "every organization"
func (r *studentRepo) RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.StudentProfile, error) {
	var out []*models.StudentProfile
	err := r.a.read(ctx, func(st *state) error {
		out = readStudents(st, recent(r.filtered(st, orgID), limit))
		return nil
	})
	return out, err
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	return r.CountByOrganization(ctx, 0)
}

func (r *studentRepo) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	var n int64
	err := r.a.read(ctx, func(st *state) error {
		n = int64(len(r.filtered(st, orgID)))
		return nil
	})
	return n, err
}
