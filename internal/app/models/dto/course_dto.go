package dto

import "github.com/yigit/campusdesk/internal/app/models"

// CourseInput is the course schema
type CourseInput struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Duration    string   `json:"duration" form:"duration" validate:"required"`
	Fee         *float64 `json:"fee" form:"fee" validate:"required,gte=0"`
	Description string   `json:"description" form:"description" validate:"required,min=5"`
}

// CourseDetailResponse is a course with its enrollment count
type CourseDetailResponse struct {
	*models.CourseOffering
	TotalStudents int `json:"totalStudents"`
}

// NewCourseDetailResponse wraps a course with its enrollment count
func NewCourseDetailResponse(course *models.CourseOffering) *CourseDetailResponse {
	return &CourseDetailResponse{CourseOffering: course, TotalStudents: len(course.EnrolledStudentIDs)}
}
