package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
)

type enrollmentRepo struct {
	base
}

// Add is idempotent: an existing edge reports added == false
func (r *enrollmentRepo) Add(ctx context.Context, studentID, courseID int64) (bool, error) {
	q := r.sb.Insert("enrollments").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		Suffix("ON CONFLICT (student_id, course_id) DO NOTHING")
	tag, err := r.exec(ctx, "add enrollment", q)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *enrollmentRepo) RemoveStudent(ctx context.Context, studentID int64) error {
	_, err := r.exec(ctx, "remove student enrollments", r.sb.Delete("enrollments").Where(squirrel.Eq{"student_id": studentID}))
	return err
}

func (r *enrollmentRepo) RemoveCourse(ctx context.Context, courseID int64) error {
	_, err := r.exec(ctx, "remove course enrollments", r.sb.Delete("enrollments").Where(squirrel.Eq{"course_id": courseID}))
	return err
}

func (r *enrollmentRepo) ids(ctx context.Context, op, column string, where squirrel.Eq) ([]int64, error) {
	q := r.sb.Select(column).From("enrollments").Where(where).OrderBy(column)
	ids := []int64{}
	err := r.list(ctx, op, q, func(row scanner) error {
		var id int64
		if err := row.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

func (r *enrollmentRepo) CourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.ids(ctx, "student courses", "course_id", squirrel.Eq{"student_id": studentID})
}

func (r *enrollmentRepo) StudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	return r.ids(ctx, "course students", "student_id", squirrel.Eq{"course_id": courseID})
}
