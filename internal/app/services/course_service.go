package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// CourseService manages an institution's own course offerings
type CourseService struct {
	store   repositories.Store
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, storage filestorage.FileStorage, logger zerolog.Logger) *CourseService {
	return &CourseService{store: store, storage: storage, logger: logger}
}

func applyCourse(c *models.CourseOffering, input dto.CourseInput) {
	c.Name = strings.TrimSpace(input.Name)
	c.Duration = strings.TrimSpace(input.Duration)
	c.Fee = *input.Fee
	c.Description = strings.TrimSpace(input.Description)
}

// Create adds a course with its image
func (s *CourseService) Create(ctx context.Context, actor *models.Account, input dto.CourseInput, image *filestorage.Upload) (*models.CourseOffering, error) {
	verr := validation.Check(&input)
	checkUpload(verr, "image", image, true)
	if verr.HasErrors() {
		return nil, verr
	}

	org, err := ownOrganization(ctx, s.store.Repositories(), actor)
	if err != nil {
		return nil, err
	}

	batch := newAssetBatch(s.storage, s.logger)
	imageURL, err := batch.store(ctx, image, filestorage.FolderCourses)
	if err != nil {
		return nil, err
	}

	course := &models.CourseOffering{ImageURL: imageURL, OrganizationID: org.ID}
	applyCourse(course, input)

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return tx.Courses.Create(ctx, course)
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("organizationID", org.ID).Msg("Course created")
	return course, nil
}

// List returns every course of the caller's institution, newest first
func (s *CourseService) List(ctx context.Context, actor *models.Account) ([]*models.CourseOffering, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}
	return repos.Courses.ListByOrganization(ctx, org.ID)
}

// owned loads a course and checks it belongs to org
func owned(ctx context.Context, repos *repositories.Repositories, org *models.Organization, id int64) (*models.CourseOffering, error) {
	course, err := repos.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "course")
	}
	if err := auth.RequireOrganization(org, course.OrganizationID); err != nil {
		return nil, err
	}
	return course, nil
}

// Get returns one course of the caller's institution
func (s *CourseService) Get(ctx context.Context, actor *models.Account, id int64) (*models.CourseOffering, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}
	return owned(ctx, repos, org, id)
}

// Update edits a course. A new image replaces the stored one.
func (s *CourseService) Update(ctx context.Context, actor *models.Account, id int64, input dto.CourseInput, image *filestorage.Upload) (*models.CourseOffering, error) {
	verr := validation.Check(&input)
	checkUpload(verr, "image", image, false)
	if verr.HasErrors() {
		return nil, verr
	}

	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}
	current, err := owned(ctx, repos, org, id)
	if err != nil {
		return nil, err
	}

	batch := newAssetBatch(s.storage, s.logger)
	updated := *current
	applyCourse(&updated, input)
	if image != nil {
		if updated.ImageURL, err = batch.store(ctx, image, filestorage.FolderCourses); err != nil {
			return nil, err
		}
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return notFound(tx.Courses.Update(ctx, &updated), "course")
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	if image != nil {
		removeFiles(s.storage, s.logger, current.ImageURL)
	}
	return &updated, nil
}

// Delete removes a course and its enrollment edges
func (s *CourseService) Delete(ctx context.Context, actor *models.Account, id int64) error {
	org, err := ownOrganization(ctx, s.store.Repositories(), actor)
	if err != nil {
		return err
	}

	var imageURL string
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		course, err := owned(ctx, tx, org, id)
		if err != nil {
			return err
		}
		imageURL = course.ImageURL
		if err := tx.Enrollments.RemoveCourse(ctx, id); err != nil {
			return err
		}
		return tx.Courses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	removeFiles(s.storage, s.logger, imageURL)
	return nil
}
