package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// StudentAssets are the files uploaded with a student
type StudentAssets struct {
	Photo     *filestorage.Upload
	Signature *filestorage.Upload
}

// EnrollmentResult is a freshly enrolled student and their one-time credentials
type EnrollmentResult struct {
	Profile     *models.StudentProfile
	Credentials models.Credentials
}

// EnrollmentService creates students together with their login accounts and
// manages student-course links.
type EnrollmentService struct {
	store   repositories.Store
	storage filestorage.FileStorage
	issuer  *CredentialIssuer
	logger  zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store repositories.Store, storage filestorage.FileStorage, issuer *CredentialIssuer, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:   store,
		storage: storage,
		issuer:  issuer,
		logger:  logger,
	}
}

// Enroll creates a student account and profile, and optionally links a
// course, in one transaction. Nothing persists unless every step succeeds.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *models.Account, input dto.StudentInput, assets StudentAssets, courseID *int64) (*EnrollmentResult, error) {
	if err := auth.RequireRole(actor, models.RoleInstitution); err != nil {
		return nil, err
	}

	verr := validation.Check(&input)
	checkUpload(verr, "photo", assets.Photo, true)
	checkUpload(verr, "signature", assets.Signature, true)
	if courseID != nil && *courseID <= 0 {
		verr.Add("courseId", "must be a positive id")
	}
	dob := parseDate(verr, "dob", input.DOB)
	admission := parseDate(verr, "admissionDate", input.AdmissionDate)
	if verr.HasErrors() {
		return nil, verr
	}

	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	// fail fast before uploading; the transaction re-checks
	if _, err := repos.Accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	batch := newAssetBatch(s.storage, s.logger)
	photoURL, err := batch.store(ctx, assets.Photo, filestorage.FolderStudentPhotos)
	if err != nil {
		batch.discard()
		return nil, err
	}
	signatureURL, err := batch.store(ctx, assets.Signature, filestorage.FolderStudentSignatures)
	if err != nil {
		batch.discard()
		return nil, err
	}

	creds, hash, err := s.issuer.Issue(email)
	if err != nil {
		batch.discard()
		return nil, err
	}

	profile := &models.StudentProfile{
		ExternalStudentID: helpers.OptionalString(input.StudentID),
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		Phone:             input.Phone,
		FatherName:        helpers.OptionalString(input.FatherName),
		BloodGroup:        helpers.OptionalString(input.BloodGroup),
		DOB:               dob,
		PhotoURL:          photoURL,
		SignatureURL:      signatureURL,
		OrganizationID:    org.ID,
	}
	if admission != nil {
		profile.AdmissionDate = *admission
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		account := &models.Account{Email: email, PasswordHash: hash, Role: models.RoleStudent}
		if err := tx.Accounts.Create(ctx, account); err != nil {
			return err
		}

		profile.AccountID = account.ID
		if err := tx.Students.Create(ctx, profile); err != nil {
			return err
		}
		if err := tx.Accounts.LinkProfile(ctx, account.ID, profile.ID); err != nil {
			return err
		}

		if courseID != nil {
			course, err := tx.Courses.GetByID(ctx, *courseID)
			if err != nil {
				return notFound(err, "course")
			}
			if err := auth.RequireOrganization(org, course.OrganizationID); err != nil {
				return err
			}
			if _, err := tx.Enrollments.Add(ctx, profile.ID, course.ID); err != nil {
				return err
			}
			profile.EnrolledCourseIDs = []int64{course.ID}
		}
		return nil
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", profile.ID).
		Int64("organizationID", org.ID).
		Msg("Student enrolled")

	s.issuer.Deliver(ctx, profile.Name, models.RoleStudent, creds)

	return &EnrollmentResult{Profile: profile, Credentials: creds}, nil
}

// LinkCourse enrolls an existing student in a course of the same
// institution. Linking twice is a conflict.
func (s *EnrollmentService) LinkCourse(ctx context.Context, actor *models.Account, studentID, courseID int64) (*models.CourseOffering, error) {
	org, err := ownOrganization(ctx, s.store.Repositories(), actor)
	if err != nil {
		return nil, err
	}

	var course *models.CourseOffering
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		student, err := tx.Students.GetByID(ctx, studentID)
		if err != nil {
			return notFound(err, "student")
		}
		if err := auth.RequireOrganization(org, student.OrganizationID); err != nil {
			return err
		}

		course, err = tx.Courses.GetByID(ctx, courseID)
		if err != nil {
			return notFound(err, "course")
		}
		if err := auth.RequireOrganization(org, course.OrganizationID); err != nil {
			return err
		}

		added, err := tx.Enrollments.Add(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if !added {
			return apperrors.ErrAlreadyEnrolled
		}

		course, err = tx.Courses.GetByID(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student linked to course")
	return course, nil
}
