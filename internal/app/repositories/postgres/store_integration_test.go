//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/campusdesk/internal/app/migrations"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/db"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) *Store {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "campusdesk",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, fmt.Sprintf("postgres://test:test@%s:%s/campusdesk?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := migrations.NewMigrator(pool).Up(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	// a second run is a no-op
	applied, err = migrations.NewMigrator(pool).Up(ctx)
	require.NoError(t, err)
	require.Zero(t, applied)

	return NewStore(&db.PostgresDB{Pool: pool})
}

func seedOrganization(t *testing.T, ctx context.Context, repos *repositories.Repositories, email string) *models.Organization {
	owner := &models.Account{Email: email, PasswordHash: "hash", Role: models.RoleInstitution}
	require.NoError(t, repos.Accounts.Create(ctx, owner))

	org := &models.Organization{
		Name:           "Green Valley",
		Email:          email,
		Phone:          "0123456789",
		GeoLocation:    models.GeoLocation{Lat: 23.8, Lng: 90.4},
		ImageURL:       "/uploads/institutions/a.png",
		OwnerAccountID: owner.ID,
	}
	require.NoError(t, repos.Organizations.Create(ctx, org))
	return org
}

func seedStudent(t *testing.T, ctx context.Context, repos *repositories.Repositories, orgID int64, email string) *models.StudentProfile {
	acc := &models.Account{Email: email, PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, repos.Accounts.Create(ctx, acc))

	s := &models.StudentProfile{
		Name:           "Ayesha",
		Email:          email,
		Phone:          "0123456789",
		PhotoURL:       "/uploads/students/photos/p.png",
		SignatureURL:   "/uploads/students/signatures/s.png",
		OrganizationID: orgID,
		AccountID:      acc.ID,
	}
	require.NoError(t, repos.Students.Create(ctx, s))
	return s
}

func TestIntegration_Store(t *testing.T) {
	ctx := context.Background()
	store := setupPostgresContainer(t, ctx)
	repos := store.Repositories()

	require.NoError(t, store.Ping(ctx))

	t.Run("single admin", func(t *testing.T) {
		require.NoError(t, repos.Accounts.Create(ctx, &models.Account{Email: "Root@Campus.test", PasswordHash: "h", Role: models.RoleAdmin}))
		err := repos.Accounts.Create(ctx, &models.Account{Email: "other@campus.test", PasswordHash: "h", Role: models.RoleAdmin})
		assert.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)

		exists, err := repos.Accounts.AdminExists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)

		acc, err := repos.Accounts.GetByEmail(ctx, "ROOT@campus.test")
		require.NoError(t, err)
		assert.Equal(t, "root@campus.test", acc.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		require.NoError(t, repos.Accounts.Create(ctx, &models.Account{Email: "dup@campus.test", PasswordHash: "h", Role: models.RoleStudent}))
		err := repos.Accounts.Create(ctx, &models.Account{Email: "DUP@campus.test", PasswordHash: "h", Role: models.RoleStudent})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repos.Courses.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		_, err = repos.Accounts.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		assert.ErrorIs(t, repos.Organizations.UpdateStatus(ctx, 9999, models.StatusInactive), apperrors.ErrResourceNotFound)
	})

	t.Run("enrollment edges are mutual", func(t *testing.T) {
		org := seedOrganization(t, ctx, repos, "edges@school.test")
		student := seedStudent(t, ctx, repos, org.ID, "edge-student@school.test")
		course := &models.CourseOffering{Name: "Go", Duration: "3 months", Fee: 1500.5, ImageURL: "/c.png", Description: "Learn Go", OrganizationID: org.ID}
		require.NoError(t, repos.Courses.Create(ctx, course))

		added, err := repos.Enrollments.Add(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repos.Enrollments.Add(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.False(t, added)

		gotStudent, err := repos.Students.GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{course.ID}, gotStudent.EnrolledCourseIDs)

		gotCourse, err := repos.Courses.GetByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{student.ID}, gotCourse.EnrolledStudentIDs)
		assert.InDelta(t, 1500.5, gotCourse.Fee, 0.001)

		_, err = repos.Enrollments.Add(ctx, student.ID, 9999)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

		require.NoError(t, repos.Courses.Delete(ctx, course.ID))
		ids, err := repos.Enrollments.CourseIDs(ctx, student.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
			if err := tx.Accounts.Create(ctx, &models.Account{Email: "tx@campus.test", PasswordHash: "h", Role: models.RoleStudent}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repos.Accounts.GetByEmail(ctx, "tx@campus.test")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("student pagination", func(t *testing.T) {
		org := seedOrganization(t, ctx, repos, "pages@school.test")
		for i := 0; i < 3; i++ {
			seedStudent(t, ctx, repos, org.ID, fmt.Sprintf("page-%d@school.test", i))
		}

		items, total, err := repos.Students.ListByOrganization(ctx, org.ID, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 2)
		assert.Equal(t, "page-2@school.test", items[0].Email)
		assert.False(t, items[0].AdmissionDate.IsZero())
	})
}
