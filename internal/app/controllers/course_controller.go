package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/middleware"
)

// CourseController handles an institution's course offerings
type CourseController struct {
	service *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(service *services.CourseService) *CourseController {
	return &CourseController{service: service}
}

// Create adds a course
// @Summary Create a course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.StructuredResponse{data=models.CourseOffering}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /courses [post]
func (cc *CourseController) Create(c *gin.Context) {
	var input dto.CourseInput
	if !middleware.Bind(c, &input) {
		return
	}
	files, ok := formFiles(c, []string{"image", "photo"})
	if !ok {
		return
	}

	course, err := cc.service.Create(c.Request.Context(), middleware.CurrentAccount(c), input, files[0])
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusCreated, course, "Course created successfully")
}

// List returns the institution's courses, newest first
func (cc *CourseController) List(c *gin.Context) {
	courses, err := cc.service.List(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, courses, "Courses retrieved successfully")
}

// Get returns one course with its enrollment count
func (cc *CourseController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := cc.service.Get(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, dto.NewCourseDetailResponse(course), "Course retrieved successfully")
}

// Update edits a course
func (cc *CourseController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input dto.CourseInput
	if !middleware.Bind(c, &input) {
		return
	}
	files, ok := formFiles(c, []string{"image", "photo"})
	if !ok {
		return
	}

	course, err := cc.service.Update(c.Request.Context(), middleware.CurrentAccount(c), id, input, files[0])
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, course, "Course updated successfully")
}

// Delete removes a course
func (cc *CourseController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := cc.service.Delete(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, nil, "Course deleted successfully")
}
