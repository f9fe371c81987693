package memory

import (
	"context"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type enrollmentRepo struct {
	a access
}

// Add writes both directions of the edge in one critical section.
func (r *enrollmentRepo) Add(ctx context.Context, studentID, courseID int64) (bool, error) {
	var added bool
	err := r.a.write(ctx, func(st *state) error {
		if _, ok := st.students[studentID]; !ok {
			return apperrors.NewResourceNotFoundError("student not found")
		}
		if _, ok := st.courses[courseID]; !ok {
			return apperrors.NewResourceNotFoundError("course not found")
		}
		if st.studentCourses.has(studentID, courseID) {
			return nil
		}
		st.studentCourses.add(studentID, courseID)
		st.courseStudents.add(courseID, studentID)
		added = true
		return nil
	})
	return added, err
}

func (r *enrollmentRepo) RemoveStudent(ctx context.Context, studentID int64) error {
	return r.a.write(ctx, func(st *state) error {
		for courseID := range st.studentCourses[studentID] {
			st.courseStudents.remove(courseID, studentID)
		}
		delete(st.studentCourses, studentID)
		return nil
	})
}

func (r *enrollmentRepo) RemoveCourse(ctx context.Context, courseID int64) error {
	return r.a.write(ctx, func(st *state) error {
		for studentID := range st.courseStudents[courseID] {
			st.studentCourses.remove(studentID, courseID)
		}
		delete(st.courseStudents, courseID)
		return nil
	})
}

func (r *enrollmentRepo) CourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	var ids []int64
	err := r.a.read(ctx, func(st *state) error {
		ids = st.studentCourses.sorted(studentID)
		return nil
	})
	return ids, err
}

func (r *enrollmentRepo) StudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	var ids []int64
	err := r.a.read(ctx, func(st *state) error {
		ids = st.courseStudents.sorted(courseID)
		return nil
	})
	return ids, err
}
