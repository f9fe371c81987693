// Package repositories declares the persistence contracts. The postgres and
// memory subpackages implement them.
//
// Not-found lookups return apperrors.ErrResourceNotFound, and unique email
// violations return apperrors.ErrEmailAlreadyExists. Emails are stored
// lowercase and matched case-insensitively.
package repositories

import (
	"context"

	"github.com/yigit/campusdesk/internal/app/models"
)

// AccountRepository is the identity store
type AccountRepository interface {
	// Create inserts a and fills in ID and timestamps
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	LinkProfile(ctx context.Context, accountID, profileID int64) error
	UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error
	UpdateEmail(ctx context.Context, accountID int64, email string) error
	Delete(ctx context.Context, id int64) error
	AdminExists(ctx context.Context) (bool, error)
}

// OrganizationRepository stores institutions
type OrganizationRepository interface {
	Create(ctx context.Context, o *models.Organization) error
	GetByID(ctx context.Context, id int64) (*models.Organization, error)
	GetByOwner(ctx context.Context, accountID int64) (*models.Organization, error)
	Update(ctx context.Context, o *models.Organization) error
	UpdateStatus(ctx context.Context, id int64, status models.OrganizationStatus) error
	Delete(ctx context.Context, id int64) error
	// List returns one page, newest first, and the total count
	List(ctx context.Context, offset uint64, limit int) ([]*models.Organization, int64, error)
	Recent(ctx context.Context, limit int) ([]*models.Organization, error)
	Count(ctx context.Context) (int64, error)
}

// CourseRepository stores course offerings. Reads populate EnrolledStudentIDs.
type CourseRepository interface {
	Create(ctx context.Context, c *models.CourseOffering) error
	GetByID(ctx context.Context, id int64) (*models.CourseOffering, error)
	// GetByIDs skips ids that do not exist
	GetByIDs(ctx context.Context, ids []int64) ([]*models.CourseOffering, error)
	Update(ctx context.Context, c *models.CourseOffering) error
	Delete(ctx context.Context, id int64) error
	ListByOrganization(ctx context.Context, orgID int64) ([]*models.CourseOffering, error)
	RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.CourseOffering, error)
	Count(ctx context.Context) (int64, error)
	CountByOrganization(ctx context.Context, orgID int64) (int64, error)
}

// StudentRepository stores student profiles. Reads populate EnrolledCourseIDs.
type StudentRepository interface {
	Create(ctx context.Context, s *models.StudentProfile) error
	GetByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	GetByAccount(ctx context.Context, accountID int64) (*models.StudentProfile, error)
	Update(ctx context.Context, s *models.StudentProfile) error
	Delete(ctx context.Context, id int64) error
	ListByOrganization(ctx context.Context, orgID int64, offset uint64, limit int) ([]*models.StudentProfile, int64, error)
	AllByOrganization(ctx context.Context, orgID int64) ([]*models.StudentProfile, error)
	Recent(ctx context.Context, limit int) ([]*models.StudentProfile, error)
	RecentByOrganization(ctx context.Context, orgID int64, limit int) ([]*models.StudentProfile, error)
	Count(ctx context.Context) (int64, error)
	CountByOrganization(ctx context.Context, orgID int64) (int64, error)
}

// EnrollmentRepository is the student-course edge set. Both directions are
// always read from the same edges, so they cannot disagree.
type EnrollmentRepository interface {
	// Add inserts the edge. added is false when it already existed.
	Add(ctx context.Context, studentID, courseID int64) (added bool, err error)
	RemoveStudent(ctx context.Context, studentID int64) error
	RemoveCourse(ctx context.Context, courseID int64) error
	CourseIDs(ctx context.Context, studentID int64) ([]int64, error)
	StudentIDs(ctx context.Context, courseID int64) ([]int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Accounts      AccountRepository
	Organizations OrganizationRepository
	Courses       CourseRepository
	Students      StudentRepository
	Enrollments   EnrollmentRepository
}

// TxFn runs against repositories bound to one transaction
type TxFn func(ctx context.Context, tx *Repositories) error

// Store hands out repositories and runs atomic units of work
type Store interface {
	Repositories() *Repositories
	// WithinTransaction commits when fn returns nil and rolls everything
	// back otherwise. Inside fn only tx may be used.
	WithinTransaction(ctx context.Context, fn TxFn) error
	Ping(ctx context.Context) error
}
