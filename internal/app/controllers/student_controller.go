package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/middleware"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/export"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// StudentController handles enrollment and an institution's students
type StudentController struct {
	enrollment *services.EnrollmentService
	students   *services.StudentService
	logger     zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(enrollment *services.EnrollmentService, students *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{enrollment: enrollment, students: students, logger: logger}
}

func studentAssets(c *gin.Context) (services.StudentAssets, bool) {
	files, ok := formFiles(c, []string{"image", "photo"}, []string{"signature"})
	if !ok {
		return services.StudentAssets{}, false
	}
	return services.StudentAssets{Photo: files[0], Signature: files[1]}, true
}

// optionalCourseID reads the courseId form field, if any
func optionalCourseID(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.PostForm("courseId"))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewValidationError().Add("courseId", "must be a positive id"))
		return nil, false
	}
	return &id, true
}

// Enroll creates a student with a login account and, optionally, a first course
// @Summary Enroll a student
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.StructuredResponse{data=dto.EnrollmentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /students [post]
func (sc *StudentController) Enroll(c *gin.Context) {
	var input dto.StudentInput
	if !middleware.Bind(c, &input) {
		return
	}
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}
	assets, ok := studentAssets(c)
	if !ok {
		return
	}

	res, err := sc.enrollment.Enroll(c.Request.Context(), middleware.CurrentAccount(c), input, assets, courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusCreated, dto.EnrollmentResponse{
		Student:     res.Profile,
		Credentials: res.Credentials,
	}, "Student enrolled successfully")
}

// List returns one page of students
func (sc *StudentController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	items, info, err := sc.students.List(c.Request.Context(), middleware.CurrentAccount(c), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, dto.PaginatedResponse{Items: items, Pagination: info}, "Students retrieved successfully")
}

// All returns every student in a compact form
func (sc *StudentController) All(c *gin.Context) {
	items, err := sc.students.All(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, items, "Students retrieved successfully")
}

// Get returns a student with the enrolled courses
func (sc *StudentController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := sc.students.Get(c.Request.Context(), middleware.CurrentAccount(c), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, detail, "Student retrieved successfully")
}

// Update edits a student
func (sc *StudentController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input dto.StudentEditInput
	if !middleware.Bind(c, &input) {
		return
	}
	assets, ok := studentAssets(c)
	if !ok {
		return
	}

	student, err := sc.students.Update(c.Request.Context(), middleware.CurrentAccount(c), id, input, assets)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, student, "Student updated successfully")
}

// Delete removes a student and their account
func (sc *StudentController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sc.students.Delete(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, nil, "Student deleted successfully")
}

// LinkCourse enrolls an existing student in another course
// @Summary Link a student to a course
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.LinkCourseRequest true "Course to link"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseDetailResponse}
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /students/{id}/courses [post]
func (sc *StudentController) LinkCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.LinkCourseRequest
	if !middleware.BindJSON(c, &req) {
		return
	}
	if req.CourseID <= 0 {
		middleware.HandleAPIError(c, apperrors.NewValidationError().Add("courseId", "must be a positive id"))
		return
	}

	course, err := sc.enrollment.LinkCourse(c.Request.Context(), middleware.CurrentAccount(c), id, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, dto.NewCourseDetailResponse(course), "Student enrolled in course successfully")
}

// Export downloads the student roster as an XLSX workbook
func (sc *StudentController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := sc.students.Export(c.Request.Context(), middleware.CurrentAccount(c), &buf); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.RosterContentType, buf.Bytes())
}
