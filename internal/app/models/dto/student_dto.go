package dto

import "github.com/yigit/campusdesk/internal/app/models"

// StudentInput is the enrollment schema
type StudentInput struct {
	StudentID     string `json:"studentId" form:"studentId"`
	Name          string `json:"name" form:"name" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Phone         string `json:"phone" form:"phone" validate:"required,phone10"`
	DOB           string `json:"dob" form:"dob" validate:"omitempty,isodate"`
	AdmissionDate string `json:"admissionDate" form:"admissionDate" validate:"omitempty,isodate"`
	FatherName    string `json:"fatherName" form:"fatherName"`
	BloodGroup    string `json:"bloodGroup" form:"bloodGroup" validate:"omitempty,bloodgroup"`
}

// StudentEditInput is the stricter schema used when an institution edits a student
type StudentEditInput struct {
	StudentID     string `json:"studentId" form:"studentId" validate:"required"`
	Name          string `json:"name" form:"name" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Phone         string `json:"phone" form:"phone" validate:"required,phone"`
	DOB           string `json:"dob" form:"dob" validate:"omitempty,isodate"`
	AdmissionDate string `json:"admissionDate" form:"admissionDate" validate:"omitempty,isodate"`
	FatherName    string `json:"fatherName" form:"fatherName" validate:"required"`
	BloodGroup    string `json:"bloodGroup" form:"bloodGroup" validate:"required,bloodgroup"`
}

// LinkCourseRequest enrolls an existing student in a course
type LinkCourseRequest struct {
	CourseID int64 `json:"courseId" validate:"required,min=1"`
}

// StudentDetailResponse is a student with the courses it is enrolled in
type StudentDetailResponse struct {
	*models.StudentProfile
	Courses      []*models.CourseOffering `json:"courses"`
	TotalCourses int                      `json:"totalCourses"`
}

// StudentSummary is the compact shape used by dropdowns
type StudentSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	StudentID *string `json:"studentId,omitempty"`
}

// EnrollmentResponse is returned after a student is enrolled. Credentials
// are shown once; they are not stored in plaintext.
type EnrollmentResponse struct {
	Student     *models.StudentProfile `json:"student"`
	Credentials models.Credentials     `json:"credentials"`
}
