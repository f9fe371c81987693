package services

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/export"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// StudentService manages an institution's existing students. Creating a
// student is EnrollmentService.Enroll.
type StudentService struct {
	store   repositories.Store
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, storage filestorage.FileStorage, logger zerolog.Logger) *StudentService {
	return &StudentService{store: store, storage: storage, logger: logger}
}

// ownedStudent loads a student and checks it belongs to org
func ownedStudent(ctx context.Context, repos *repositories.Repositories, org *models.Organization, id int64) (*models.StudentProfile, error) {
	student, err := repos.Students.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "student")
	}
	if err := auth.RequireOrganization(org, student.OrganizationID); err != nil {
		return nil, err
	}
	return student, nil
}

// List returns one page of the institution's students, newest first
func (s *StudentService) List(ctx context.Context, actor *models.Account, page, size int) ([]*models.StudentProfile, dto.PaginationInfo, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := repos.Students.ListByOrganization(ctx, org.ID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return items, helpers.NewPaginationInfo(total, page, size), nil
}

// All returns a short summary of every student, for dropdowns
func (s *StudentService) All(ctx context.Context, actor *models.Account) ([]dto.StudentSummary, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}

	students, err := repos.Students.AllByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentSummary, len(students))
	for i, st := range students {
		out[i] = dto.StudentSummary{ID: st.ID, Name: st.Name, Email: st.Email, StudentID: st.ExternalStudentID}
	}
	return out, nil
}

// Get returns a student with the courses they are enrolled in
func (s *StudentService) Get(ctx context.Context, actor *models.Account, id int64) (*dto.StudentDetailResponse, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}
	student, err := ownedStudent(ctx, repos, org, id)
	if err != nil {
		return nil, err
	}

	courses, err := repos.Courses.GetByIDs(ctx, student.EnrolledCourseIDs)
	if err != nil {
		return nil, err
	}
	return &dto.StudentDetailResponse{
		StudentProfile: student,
		Courses:        courses,
		TotalCourses:   len(courses),
	}, nil
}

// Update edits a student. A new email is mirrored onto the student's
// account; new photo or signature files replace the stored ones.
func (s *StudentService) Update(ctx context.Context, actor *models.Account, id int64, input dto.StudentEditInput, assets StudentAssets) (*models.StudentProfile, error) {
	verr := validation.Check(&input)
	checkUpload(verr, "photo", assets.Photo, false)
	checkUpload(verr, "signature", assets.Signature, false)
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
	current, err := ownedStudent(ctx, repos, org, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.ExternalStudentID = helpers.OptionalString(input.StudentID)
	updated.Name = strings.TrimSpace(input.Name)
	updated.Email = strings.ToLower(strings.TrimSpace(input.Email))
	updated.Phone = input.Phone
	updated.FatherName = helpers.OptionalString(input.FatherName)
	updated.BloodGroup = helpers.OptionalString(input.BloodGroup)
	updated.DOB = dob
	if admission != nil {
		updated.AdmissionDate = *admission
	}

	batch := newAssetBatch(s.storage, s.logger)
	var replaced []string
	if assets.Photo != nil {
		if updated.PhotoURL, err = batch.store(ctx, assets.Photo, filestorage.FolderStudentPhotos); err != nil {
			return nil, err
		}
		replaced = append(replaced, current.PhotoURL)
	}
	if assets.Signature != nil {
		if updated.SignatureURL, err = batch.store(ctx, assets.Signature, filestorage.FolderStudentSignatures); err != nil {
			batch.discard()
			return nil, err
		}
		replaced = append(replaced, current.SignatureURL)
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.Students.Update(ctx, &updated); err != nil {
			return notFound(err, "student")
		}
		if updated.Email != current.Email {
			return tx.Accounts.UpdateEmail(ctx, current.AccountID, updated.Email)
		}
		return nil
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	removeFiles(s.storage, s.logger, replaced...)
	return &updated, nil
}

// Delete removes a student, their account and their enrollment edges
func (s *StudentService) Delete(ctx context.Context, actor *models.Account, id int64) error {
	org, err := ownOrganization(ctx, s.store.Repositories(), actor)
	if err != nil {
		return err
	}

	var files []string
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		student, err := ownedStudent(ctx, tx, org, id)
		if err != nil {
			return err
		}
		files = []string{student.PhotoURL, student.SignatureURL}

		if err := tx.Enrollments.RemoveStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Students.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Accounts.Delete(ctx, student.AccountID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	removeFiles(s.storage, s.logger, files...)
	return nil
}

// Export writes the institution's student roster as an XLSX workbook
func (s *StudentService) Export(ctx context.Context, actor *models.Account, w io.Writer) error {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return err
	}

	students, err := repos.Students.AllByOrganization(ctx, org.ID)
	if err != nil {
		return err
	}
	courses, err := repos.Courses.ListByOrganization(ctx, org.ID)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}

	return export.WriteStudentRoster(w, students, names)
}
