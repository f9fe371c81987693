package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
)

func TestProvision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.adminUser(t)

	input := institutionInput("Info@GreenValley.edu")
	input.Website = "https://greenvalley.edu"
	input.EstablishDate = "1998-03-01"
	res, err := f.institutions.Provision(ctx, admin, input, InstitutionAssets{Image: image("logo.png"), Banner: image("banner.png")})
	require.NoError(t, err)

	org := res.Institution
	assert.Equal(t, "info@greenvalley.edu", org.Email)
	assert.Equal(t, models.StatusActive, org.Status)
	assert.Equal(t, models.GeoLocation{Lat: 23.81, Lng: 90.41}, org.GeoLocation)
	require.NotNil(t, org.EstablishDate)
	assert.Equal(t, 1998, org.EstablishDate.Year())
	assert.True(t, f.storage.has(org.ImageURL))
	require.NotNil(t, org.BannerURL)
	assert.True(t, f.storage.has(*org.BannerURL))

	owner, err := f.repos.Accounts.GetByEmail(ctx, "info@greenvalley.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstitution, owner.Role)
	assert.Equal(t, owner.ID, org.OwnerAccountID)
	require.NotNil(t, owner.LinkedProfileID)
	assert.Equal(t, org.ID, *owner.LinkedProfileID)
	assert.True(t, auth.CheckPassword(owner.PasswordHash, res.Credentials.Password))

	notices := f.notifier.all()
	require.Len(t, notices, 1)
	assert.Equal(t, models.RoleInstitution, notices[0].Role)
	assert.Equal(t, "Green Valley Academy", notices[0].Name)
}

func TestProvision_MissingGeoLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.adminUser(t)

	input := institutionInput("info@x.edu")
	input.GeoLocation = nil
	_, err := f.institutions.Provision(ctx, admin, input, InstitutionAssets{Image: image("logo.png")})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("geoLocation"))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Zero(t, f.storage.count(), "no upload is attempted")
	_, err = f.repos.Accounts.GetByEmail(ctx, "info@x.edu")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Empty(t, f.notifier.all())
}

func TestProvision_InvalidCoordinates(t *testing.T) {
	f := newFixture(t)
	input := institutionInput("info@x.edu")
	input.GeoLocation = &dto.GeoLocationInput{Lat: ptr(123.0), Lng: ptr(90.0)}

	_, err := f.institutions.Provision(context.Background(), f.adminUser(t), input, InstitutionAssets{Image: image("logo.png")})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("geoLocation.lat"))
	assert.False(t, verr.HasField("geoLocation.lng"))
}

func TestProvision_RequiresImageAndAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.institutions.Provision(ctx, f.adminUser(t), institutionInput("info@x.edu"), InstitutionAssets{})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("image"))

	owner, _ := f.institution(t, "owner@academy.test")
	_, err = f.institutions.Provision(ctx, owner, institutionInput("info@x.edu"), InstitutionAssets{Image: image("logo.png")})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestProvision_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.institution(t, "owner@academy.test")
	files := f.storage.count()

	_, err := f.institutions.Provision(ctx, f.adminUser(t), institutionInput("OWNER@academy.test"), InstitutionAssets{Image: image("logo.png")})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, files, f.storage.count())

	// the admin's own email is taken too
	_, err = f.institutions.Provision(ctx, f.adminUser(t), institutionInput("admin@campus.test"), InstitutionAssets{Image: image("logo.png")})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestProvision_StorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.storage.failPrefix = "institutions/banner"

	_, err := f.institutions.Provision(ctx, f.adminUser(t), institutionInput("info@x.edu"),
		InstitutionAssets{Image: image("logo.png"), Banner: image("banner.png")})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Zero(t, f.storage.count(), "the stored image is removed")

	_, err = f.repos.Accounts.GetByEmail(ctx, "info@x.edu")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitution_ListAndRecent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.adminUser(t)
	for _, email := range []string{"a@x.edu", "b@x.edu", "c@x.edu"} {
		f.institution(t, email)
	}

	page, info, err := f.institutions.List(ctx, admin, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c@x.edu", page[0].Email)
	assert.Equal(t, "b@x.edu", page[1].Email)
	assert.Equal(t, int64(3), info.TotalItems)
	assert.Equal(t, 2, info.TotalPages)

	page, _, err = f.institutions.List(ctx, admin, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a@x.edu", page[0].Email)

	recent, err := f.institutions.Recent(ctx, admin, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c@x.edu", recent[0].Email)
}

func TestInstitution_Get(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, org := f.institution(t, "a@x.edu")

	got, err := f.institutions.Get(ctx, f.adminUser(t), org.ID)
	require.NoError(t, err)
	assert.Equal(t, org.Name, got.Name)

	_, err = f.institutions.Get(ctx, f.adminUser(t), 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitution_UpdateMirrorsEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, org := f.institution(t, "old@x.edu")
	oldImage := org.ImageURL

	input := dto.InstitutionUpdateInput{Name: "Renamed Academy", Email: "New@X.edu", Phone: "0999999999"}
	updated, err := f.institutions.Update(ctx, f.adminUser(t), org.ID, input, InstitutionAssets{Image: image("new.png")})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Academy", updated.Name)
	assert.Equal(t, "new@x.edu", updated.Email)
	assert.Equal(t, org.GeoLocation, updated.GeoLocation, "omitted coordinates are kept")
	assert.False(t, f.storage.has(oldImage), "the replaced image is removed")
	assert.True(t, f.storage.has(updated.ImageURL))

	account, err := f.repos.Accounts.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.edu", account.Email)

	_, err = f.repos.Accounts.GetByEmail(ctx, "old@x.edu")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitution_UpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, org := f.institution(t, "a@x.edu")
	f.institution(t, "b@x.edu")

	input := dto.InstitutionUpdateInput{Name: "Academy", Email: "b@x.edu", Phone: "0999999999"}
	_, err := f.institutions.Update(ctx, f.adminUser(t), org.ID, input, InstitutionAssets{Image: image("new.png")})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	stored, err := f.repos.Organizations.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.edu", stored.Email)
	assert.True(t, f.storage.has(stored.ImageURL), "the old image survives a failed update")
}

func TestInstitution_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.adminUser(t)
	_, org := f.institution(t, "a@x.edu")

	got, err := f.institutions.UpdateStatus(ctx, admin, org.ID, dto.StatusUpdateRequest{Status: "INACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, got.Status)

	_, err = f.institutions.UpdateStatus(ctx, admin, org.ID, dto.StatusUpdateRequest{Status: "PAUSED"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.institutions.UpdateStatus(ctx, admin, 999, dto.StatusUpdateRequest{Status: "ACTIVE"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitution_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, org := f.institution(t, "a@x.edu")
	otherOwner, _ := f.institution(t, "b@x.edu")

	course := f.course(t, owner, "Algebra")
	student := f.enroll(t, owner, "s@x.com", &course.ID).Profile
	keptCourse := f.course(t, otherOwner, "Kept")
	kept := f.enroll(t, otherOwner, "kept@x.com", &keptCourse.ID).Profile

	require.NoError(t, f.institutions.Delete(ctx, f.adminUser(t), org.ID))

	_, err := f.repos.Organizations.GetByID(ctx, org.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.Accounts.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.Students.GetByID(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.Accounts.GetByEmail(ctx, "s@x.com")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.Courses.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.False(t, f.storage.has(org.ImageURL))
	assert.False(t, f.storage.has(student.PhotoURL))

	stillThere, err := f.repos.Students.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{keptCourse.ID}, stillThere.EnrolledCourseIDs)

	err = f.institutions.Delete(ctx, f.adminUser(t), org.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitution_ResendCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, org := f.institution(t, "a@x.edu")

	require.NoError(t, f.institutions.ResendCredentials(ctx, f.adminUser(t), org.ID))

	notices := f.notifier.all()
	require.Len(t, notices, 2)
	fresh := notices[1]
	assert.Equal(t, "a@x.edu", fresh.Email)
	assert.NotEqual(t, notices[0].Password, fresh.Password)

	account, err := f.repos.Accounts.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(account.PasswordHash, fresh.Password))
	assert.False(t, auth.CheckPassword(account.PasswordHash, notices[0].Password))

	err = f.institutions.ResendCredentials(ctx, f.adminUser(t), 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
