package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func TestCourse_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, org := f.institution(t, "owner@academy.test")
	other, _ := f.institution(t, "other@academy.test")

	first := f.course(t, owner, "Algebra")
	second := f.course(t, owner, "Biology")
	f.course(t, other, "Elsewhere")

	assert.Equal(t, org.ID, first.OrganizationID)
	assert.Equal(t, 1200.0, first.Fee)
	assert.True(t, f.storage.has(first.ImageURL))

	list, err := f.courses.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCourse_CreateValidation(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")

	_, err := f.courses.Create(context.Background(), owner, dto.CourseInput{Name: "X", Fee: ptr(-1.0), Description: "abc"}, nil)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"duration", "fee", "description", "image"} {
		assert.True(t, verr.HasField(field), "expected a failure for %s", field)
	}
}

func TestCourse_ZeroFeeIsAllowed(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")

	c, err := f.courses.Create(context.Background(), owner, dto.CourseInput{
		Name: "Free Workshop", Duration: "1 day", Fee: ptr(0.0), Description: "Open to everyone",
	}, image("free.png"))
	require.NoError(t, err)
	assert.Zero(t, c.Fee)
}

func TestCourse_RequiresInstitution(t *testing.T) {
	f := newFixture(t)
	_, err := f.courses.List(context.Background(), f.adminUser(t))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCourse_OtherInstitutionIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	other, _ := f.institution(t, "other@academy.test")
	theirs := f.course(t, other, "Theirs")

	_, err := f.courses.Get(ctx, owner, theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.courses.Delete(ctx, owner, theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.repos.Courses.GetByID(ctx, theirs.ID)
	assert.NoError(t, err)

	_, err = f.courses.Get(ctx, owner, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCourse_UpdateReplacesImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	c := f.course(t, owner, "Algebra")

	updated, err := f.courses.Update(ctx, owner, c.ID, dto.CourseInput{
		Name: "Linear Algebra", Duration: "6 months", Fee: ptr(1500.0), Description: "Vectors and matrices",
	}, image("new.png"))
	require.NoError(t, err)

	assert.Equal(t, "Linear Algebra", updated.Name)
	assert.Equal(t, 1500.0, updated.Fee)
	assert.False(t, f.storage.has(c.ImageURL))
	assert.True(t, f.storage.has(updated.ImageURL))

	stored, err := f.courses.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", stored.Name)

	// without a new image the current one is kept
	kept, err := f.courses.Update(ctx, owner, c.ID, dto.CourseInput{
		Name: "Linear Algebra", Duration: "6 months", Fee: ptr(1400.0), Description: "Vectors and matrices",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURL, kept.ImageURL)
}

func TestCourse_DeleteRemovesEdges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, _ := f.institution(t, "owner@academy.test")
	c := f.course(t, owner, "Algebra")
	s := f.enroll(t, owner, "s@x.com", &c.ID).Profile

	require.NoError(t, f.courses.Delete(ctx, owner, c.ID))

	_, err := f.repos.Courses.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.False(t, f.storage.has(c.ImageURL))

	student, err := f.repos.Students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, student.EnrolledCourseIDs)
}
