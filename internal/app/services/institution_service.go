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

// InstitutionAssets are the files uploaded with an institution
type InstitutionAssets struct {
	Image  *filestorage.Upload
	Banner *filestorage.Upload
}

// ProvisionResult is a new institution and the owner's one-time credentials
type ProvisionResult struct {
	Institution *models.Organization
	Credentials models.Credentials
}

// InstitutionService is the admin's view of institutions
type InstitutionService struct {
	store   repositories.Store
	storage filestorage.FileStorage
	issuer  *CredentialIssuer
	logger  zerolog.Logger
}

// NewInstitutionService creates a new InstitutionService
func NewInstitutionService(store repositories.Store, storage filestorage.FileStorage, issuer *CredentialIssuer, logger zerolog.Logger) *InstitutionService {
	return &InstitutionService{
		store:   store,
		storage: storage,
		issuer:  issuer,
		logger:  logger,
	}
}

// applyInstitution copies the editable fields of input onto org
func applyInstitution(verr *apperrors.ValidationError, org *models.Organization, input dto.InstitutionInput) {
	org.Name = strings.TrimSpace(input.Name)
	org.Email = strings.ToLower(strings.TrimSpace(input.Email))
	org.Phone = input.Phone
	org.Website = helpers.OptionalString(input.Website)
	org.RegistrationNo = helpers.OptionalString(input.RegistrationNo)
	org.EstablishDate = parseDate(verr, "establishDate", input.EstablishDate)
	org.Address = helpers.OptionalString(input.Address)
	if input.GeoLocation != nil && input.GeoLocation.Lat != nil && input.GeoLocation.Lng != nil {
		org.GeoLocation = models.GeoLocation{Lat: *input.GeoLocation.Lat, Lng: *input.GeoLocation.Lng}
	}
}

// Provision creates an institution and its owner account in one transaction
// and emails the generated password after commit.
func (s *InstitutionService) Provision(ctx context.Context, actor *models.Account, input dto.InstitutionInput, assets InstitutionAssets) (*ProvisionResult, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	org := &models.Organization{Status: models.StatusActive}
	verr := validation.Check(&input)
	checkUpload(verr, "image", assets.Image, true)
	checkUpload(verr, "banner", assets.Banner, false)
	applyInstitution(verr, org, input)
	if verr.HasErrors() {
		return nil, verr
	}

	repos := s.store.Repositories()
	if _, err := repos.Accounts.GetByEmail(ctx, org.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	batch := newAssetBatch(s.storage, s.logger)
	imageURL, err := batch.store(ctx, assets.Image, filestorage.FolderInstitutions)
	if err != nil {
		batch.discard()
		return nil, err
	}
	bannerURL, err := batch.store(ctx, assets.Banner, filestorage.FolderInstitutions)
	if err != nil {
		batch.discard()
		return nil, err
	}
	org.ImageURL = imageURL
	org.BannerURL = helpers.OptionalString(bannerURL)

	creds, hash, err := s.issuer.Issue(org.Email)
	if err != nil {
		batch.discard()
		return nil, err
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		account := &models.Account{Email: org.Email, PasswordHash: hash, Role: models.RoleInstitution}
		if err := tx.Accounts.Create(ctx, account); err != nil {
			return err
		}
		org.OwnerAccountID = account.ID
		if err := tx.Organizations.Create(ctx, org); err != nil {
			return err
		}
		return tx.Accounts.LinkProfile(ctx, account.ID, org.ID)
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	s.logger.Info().Int64("organizationID", org.ID).Str("email", org.Email).Msg("Institution provisioned")
	s.issuer.Deliver(ctx, org.Name, models.RoleInstitution, creds)

	return &ProvisionResult{Institution: org, Credentials: creds}, nil
}

// Get returns one institution
func (s *InstitutionService) Get(ctx context.Context, actor *models.Account, id int64) (*models.Organization, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	org, err := s.store.Repositories().Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "institution")
	}
	return org, nil
}

// List returns one page of institutions, newest first
func (s *InstitutionService) List(ctx context.Context, actor *models.Account, page, size int) ([]*models.Organization, dto.PaginationInfo, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.store.Repositories().Organizations.List(ctx, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return items, helpers.NewPaginationInfo(total, page, size), nil
}

// Recent returns the newest institutions
func (s *InstitutionService) Recent(ctx context.Context, actor *models.Account, limit int) ([]*models.Organization, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Repositories().Organizations.Recent(ctx, limit)
}

// Update edits an institution. A new email is mirrored onto the owner
// account; a new image or banner replaces the stored one.
func (s *InstitutionService) Update(ctx context.Context, actor *models.Account, id int64, input dto.InstitutionUpdateInput, assets InstitutionAssets) (*models.Organization, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	verr := validation.Check(&input)
	checkUpload(verr, "image", assets.Image, false)
	checkUpload(verr, "banner", assets.Banner, false)

	current, err := s.store.Repositories().Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "institution")
	}

	updated := *current
	applyInstitution(verr, &updated, dto.InstitutionInput(input))
	if verr.HasErrors() {
		return nil, verr
	}
	if input.GeoLocation == nil {
		updated.GeoLocation = current.GeoLocation
	}
	// an omitted banner keeps the current one
	updated.BannerURL = current.BannerURL

	batch := newAssetBatch(s.storage, s.logger)
	var replaced []string
	if assets.Image != nil {
		url, err := batch.store(ctx, assets.Image, filestorage.FolderInstitutions)
		if err != nil {
			return nil, err
		}
		updated.ImageURL = url
		replaced = append(replaced, current.ImageURL)
	}
	if assets.Banner != nil {
		url, err := batch.store(ctx, assets.Banner, filestorage.FolderInstitutions)
		if err != nil {
			batch.discard()
			return nil, err
		}
		updated.BannerURL = &url
		if current.BannerURL != nil {
			replaced = append(replaced, *current.BannerURL)
		}
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.Organizations.Update(ctx, &updated); err != nil {
			return notFound(err, "institution")
		}
		if updated.Email != current.Email {
			return tx.Accounts.UpdateEmail(ctx, current.OwnerAccountID, updated.Email)
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

// UpdateStatus activates or deactivates an institution
func (s *InstitutionService) UpdateStatus(ctx context.Context, actor *models.Account, id int64, req dto.StatusUpdateRequest) (*models.Organization, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	var org *models.Organization
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.Organizations.UpdateStatus(ctx, id, models.OrganizationStatus(req.Status)); err != nil {
			return notFound(err, "institution")
		}
		var err error
		org, err = tx.Organizations.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("organizationID", id).Str("status", req.Status).Msg("Institution status changed")
	return org, nil
}

// Delete removes an institution with its owner account, its students (and
// their accounts), its courses and every enrollment edge between them.
func (s *InstitutionService) Delete(ctx context.Context, actor *models.Account, id int64) error {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	var files []string
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		org, err := tx.Organizations.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "institution")
		}
		files = append(files, org.ImageURL)
		if org.BannerURL != nil {
			files = append(files, *org.BannerURL)
		}

		students, err := tx.Students.AllByOrganization(ctx, id)
		if err != nil {
			return err
		}
		for _, st := range students {
			if err := tx.Enrollments.RemoveStudent(ctx, st.ID); err != nil {
				return err
			}
			if err := tx.Students.Delete(ctx, st.ID); err != nil {
				return err
			}
			if err := tx.Accounts.Delete(ctx, st.AccountID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
				return err
			}
			files = append(files, st.PhotoURL, st.SignatureURL)
		}

		courses, err := tx.Courses.ListByOrganization(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range courses {
			if err := tx.Enrollments.RemoveCourse(ctx, c.ID); err != nil {
				return err
			}
			if err := tx.Courses.Delete(ctx, c.ID); err != nil {
				return err
			}
			files = append(files, c.ImageURL)
		}

		if err := tx.Organizations.Delete(ctx, id); err != nil {
			return err
		}
		if err := tx.Accounts.Delete(ctx, org.OwnerAccountID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("organizationID", id).Int("files", len(files)).Msg("Institution deleted")
	removeFiles(s.storage, s.logger, files...)
	return nil
}

// ResendCredentials issues the owner a new password and emails it. Stored
// passwords are hashes, so the old one cannot be sent again.
func (s *InstitutionService) ResendCredentials(ctx context.Context, actor *models.Account, id int64) error {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	repos := s.store.Repositories()
	org, err := repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "institution")
	}
	owner, err := repos.Accounts.GetByID(ctx, org.OwnerAccountID)
	if err != nil {
		return notFound(err, "institution account")
	}

	creds, hash, err := s.issuer.Issue(owner.Email)
	if err != nil {
		return err
	}
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return tx.Accounts.UpdatePassword(ctx, owner.ID, hash)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("organizationID", id).Msg("Institution credentials reissued")
	s.issuer.Deliver(ctx, org.Name, models.RoleInstitution, creds)
	return nil
}
