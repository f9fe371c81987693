package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/middleware"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// InstitutionController exposes institution management to the admin
type InstitutionController struct {
	service *services.InstitutionService
	logger  zerolog.Logger
}

// NewInstitutionController creates a new InstitutionController
func NewInstitutionController(service *services.InstitutionService, logger zerolog.Logger) *InstitutionController {
	return &InstitutionController{service: service, logger: logger}
}

// institutionAssets reads the image (or photo) and banner uploads
func institutionAssets(c *gin.Context) (services.InstitutionAssets, bool) {
	files, ok := formFiles(c, []string{"image", "photo"}, []string{"banner"})
	if !ok {
		return services.InstitutionAssets{}, false
	}
	return services.InstitutionAssets{Image: files[0], Banner: files[1]}, true
}

// bindGeoLocation fills geo from form fields when the body is a form
func bindGeoLocation(c *gin.Context, geo **dto.GeoLocationInput) bool {
	if !isForm(c) {
		return true
	}
	parsed, err := formGeoLocation(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return false
	}
	*geo = parsed
	return true
}

// Create provisions an institution and its owner account
// @Summary Create an institution
// @Tags institutions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.StructuredResponse{data=dto.ProvisionResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/institutions [post]
func (ic *InstitutionController) Create(c *gin.Context) {
	var input dto.InstitutionInput
	if !middleware.Bind(c, &input) || !bindGeoLocation(c, &input.GeoLocation) {
		return
	}
	assets, ok := institutionAssets(c)
	if !ok {
		return
	}

	res, err := ic.service.Provision(c.Request.Context(), middleware.CurrentAccount(c), input, assets)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	okResponse(c, http.StatusCreated, dto.ProvisionResponse{
		Institution: res.Institution,
		Credentials: res.Credentials,
	}, "Institution created successfully")
}

// List returns one page of institutions
// @Summary List institutions
// @Tags institutions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /admin/institutions [get]
func (ic *InstitutionController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	items, info, err := ic.service.List(c.Request.Context(), middleware.CurrentAccount(c), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, dto.PaginatedResponse{Items: items, Pagination: info}, "Institutions retrieved successfully")
}

// Recent returns the newest institutions
func (ic *InstitutionController) Recent(c *gin.Context) {
	items, err := ic.service.Recent(c.Request.Context(), middleware.CurrentAccount(c), helpers.ParseRecentLimit(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, items, "Recent institutions retrieved successfully")
}

// Get returns one institution
func (ic *InstitutionController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	org, err := ic.service.Get(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, org, "Institution retrieved successfully")
}

// Update edits an institution
// @Summary Update an institution
// @Tags institutions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institution ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Organization}
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/institutions/{id} [put]
func (ic *InstitutionController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input dto.InstitutionUpdateInput
	if !middleware.Bind(c, &input) || !bindGeoLocation(c, &input.GeoLocation) {
		return
	}
	assets, ok := institutionAssets(c)
	if !ok {
		return
	}

	org, err := ic.service.Update(c.Request.Context(), middleware.CurrentAccount(c), id, input, assets)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, org, "Institution updated successfully")
}

// UpdateStatus activates or deactivates an institution
func (ic *InstitutionController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	org, err := ic.service.UpdateStatus(c.Request.Context(), middleware.CurrentAccount(c), id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, org, "Institution status updated successfully")
}

// Delete removes an institution with everything it owns
func (ic *InstitutionController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ic.service.Delete(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, nil, "Institution deleted successfully")
}

// ResendCredentials emails the institution a freshly generated password
func (ic *InstitutionController) ResendCredentials(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ic.service.ResendCredentials(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, nil, "New credentials were emailed to the institution")
}
