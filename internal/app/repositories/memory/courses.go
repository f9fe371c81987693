package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type courseRepo struct {
	a   access
	now func() time.Time
}

func readCourse(st *state, c *models.CourseOffering) *models.CourseOffering {
	out := copyCourse(c)
	out.EnrolledStudentIDs = st.courseStudents.sorted(c.ID)
	return out
}

func (r *courseRepo) Create(ctx context.Context, c *models.CourseOffering) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.orgs[c.OrganizationID]; !ok {
			return apperrors.ErrResourceNotFound
		}
		st.seqCourse++
		now := r.now()
		c.ID = st.seqCourse
		c.CreatedAt, c.UpdatedAt = now, now
		c.EnrolledStudentIDs = []int64{}
		st.courses[c.ID] = copyCourse(c)
		return nil
	})
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	var out *models.CourseOffering
	err := r.a.read(ctx, func(st *state) error {
		c, ok := st.courses[id]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		out = readCourse(st, c)
		return nil
	})
	return out, err
}

func (r *courseRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.CourseOffering, error) {
	out := []*models.CourseOffering{}
	err := r.a.read(ctx, func(st *state) error {
		for _, id := range ids {
			if c, ok := st.courses[id]; ok {
				out = append(out, readCourse(st, c))
			}
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) Update(ctx context.Context, c *models.CourseOffering) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.courses[c.ID]
		if !ok {
			return apperrors.ErrResourceNotFound
		}
		c.OrganizationID = cur.OrganizationID
		c.CreatedAt = cur.CreatedAt
		c.UpdatedAt = r.now()
		st.courses[c.ID] = copyCourse(c)
		c.EnrolledStudentIDs = st.courseStudents.sorted(c.ID)
		return nil
	})
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.courses[id]; !ok {
			return apperrors.ErrResourceNotFound
		}
		delete(st.courses, id)
		// edges go with the row, like ON DELETE CASCADE
		for other := range st.courseStudents[id] {
			st.studentCourses.remove(other, id)
		}
		delete(st.courseStudents, id)
		return nil
	})
}

func (r *courseRepo) byOrganization(st *state, orgID int64) []*models.CourseOffering {
	var out []*models.CourseOffering
	for _, c := range st.courses {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *courseRepo) ListByOrganization(ctx context.Context, orgID int64) ([]*models.CourseOffering, error) {
	return r.RecentByOrganization(ctx, orgID, 0)
}

func (r *courseRepo) RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.CourseOffering, error) {
	out := []*models.CourseOffering{}
	err := r.a.read(ctx, func(st *state) error {
		for _, c := range recent(r.byOrganization(st, orgID), limit) {
			out = append(out, readCourse(st, c))
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.a.read(ctx, func(st *state) error {
		n = int64(len(st.courses))
		return nil
	})
	return n, err
}

func (r *courseRepo) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	var n int64
	err := r.a.read(ctx, func(st *state) error {
		n = int64(len(r.byOrganization(st, orgID)))
		return nil
	})
	return n, err
}
