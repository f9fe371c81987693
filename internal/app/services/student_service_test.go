package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/export"
)

func editInput(email string) dto.StudentEditInput {
	return dto.StudentEditInput{
		StudentID:  "STU-001",
		Name:       "Ayesha Rahman",
		Email:      email,
		Phone:      "8801711000000",
		FatherName: "Karim Rahman",
		BloodGroup: "O+",
		DOB:        "2004-05-06",
	}
}

func TestStudent_ListAndAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	other, _ := f.institution(t, "other@academy.test")
	f.enroll(t, owner, "a@x.com", nil)
	f.enroll(t, owner, "b@x.com", nil)
	f.enroll(t, owner, "c@x.com", nil)
	f.enroll(t, other, "d@x.com", nil)

	page, info, err := f.students.List(ctx, owner, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c@x.com", page[0].Email)
	assert.Equal(t, int64(3), info.TotalItems)

	all, err := f.students.All(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, s := range all {
		assert.NotEqual(t, "d@x.com", s.Email)
	}
}

func TestStudent_GetWithCourses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	c1 := f.course(t, owner, "Algebra")
	c2 := f.course(t, owner, "Biology")
	s := f.enroll(t, owner, "a@x.com", &c1.ID).Profile
	_, err := f.enrollment.LinkCourse(ctx, owner, s.ID, c2.ID)
	require.NoError(t, err)

	detail, err := f.students.Get(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.TotalCourses)
	assert.ElementsMatch(t, []int64{c1.ID, c2.ID}, detail.EnrolledCourseIDs)

	other, _ := f.institution(t, "other@academy.test")
	_, err = f.students.Get(ctx, other, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestStudent_UpdateMirrorsEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	s := f.enroll(t, owner, "a@x.com", nil).Profile

	updated, err := f.students.Update(ctx, owner, s.ID, editInput("Renamed@X.com"), StudentAssets{Photo: image("new.png")})
	require.NoError(t, err)

	assert.Equal(t, "renamed@x.com", updated.Email)
	require.NotNil(t, updated.BloodGroup)
	assert.Equal(t, "O+", *updated.BloodGroup)
	require.NotNil(t, updated.DOB)
	assert.Equal(t, 2004, updated.DOB.Year())
	assert.Equal(t, s.AdmissionDate, updated.AdmissionDate)
	assert.False(t, f.storage.has(s.PhotoURL))
	assert.True(t, f.storage.has(s.SignatureURL), "an omitted signature is kept")

	account, err := f.repos.Accounts.GetByID(ctx, s.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "renamed@x.com", account.Email)
}

func TestStudent_UpdateRequiresFullRecord(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	s := f.enroll(t, owner, "a@x.com", nil).Profile

	_, err := f.students.Update(context.Background(), owner, s.ID, dto.StudentEditInput{Name: "A", Email: "a@x.com", Phone: "1234567890"}, StudentAssets{})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"studentId", "fatherName", "bloodGroup"} {
		assert.True(t, verr.HasField(field), "expected a failure for %s", field)
	}
}

func TestStudent_UpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	s := f.enroll(t, owner, "a@x.com", nil).Profile
	f.enroll(t, owner, "b@x.com", nil)

	_, err := f.students.Update(ctx, owner, s.ID, editInput("b@x.com"), StudentAssets{Photo: image("new.png")})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	stored, err := f.repos.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.True(t, f.storage.has(stored.PhotoURL))
}

func TestStudent_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	c := f.course(t, owner, "Algebra")
	s := f.enroll(t, owner, "a@x.com", &c.ID).Profile

	require.NoError(t, f.students.Delete(ctx, owner, s.ID))

	_, err := f.repos.Students.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.Accounts.GetByID(ctx, s.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.False(t, f.storage.has(s.PhotoURL))

	course, err := f.repos.Courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, course.EnrolledStudentIDs)

	assert.ErrorIs(t, f.students.Delete(ctx, owner, s.ID), apperrors.ErrResourceNotFound)
}

func TestStudent_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	c := f.course(t, owner, "Algebra")
	f.enroll(t, owner, "a@x.com", &c.ID)
	f.enroll(t, owner, "b@x.com", nil)

	var buf bytes.Buffer
	require.NoError(t, f.students.Export(ctx, owner, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(export.RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Email", rows[0][3])

	var sawCourse bool
	for _, row := range rows[1:] {
		if row[3] == "a@x.com" {
			sawCourse = row[len(row)-1] == "Algebra"
		}
	}
	assert.True(t, sawCourse)
}
