package models

import "time"

// StudentProfile defines a student enrolled at one organization
type StudentProfile struct {
	ID                int64      `json:"id" db:"id" example:"1"`
	ExternalStudentID *string    `json:"studentId,omitempty" db:"external_student_id" example:"STU-2024-001"`
	Name              string     `json:"name" db:"name" example:"Ayesha Rahman"`
	Email             string     `json:"email" db:"email" example:"ayesha@example.com"`
	Phone             string     `json:"phone" db:"phone" example:"0123456789"`
	FatherName        *string    `json:"fatherName,omitempty" db:"father_name"`
	BloodGroup        *string    `json:"bloodGroup,omitempty" db:"blood_group" example:"O+"`
	DOB               *time.Time `json:"dob,omitempty" db:"dob"`
	AdmissionDate     time.Time  `json:"admissionDate" db:"admission_date"`
	PhotoURL          string     `json:"image" db:"photo_url"`
	SignatureURL      string     `json:"signature" db:"signature_url"`
	OrganizationID    int64      `json:"organizationId" db:"organization_id"`
	AccountID         int64      `json:"accountId" db:"account_id"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`

	// Projection of the enrollment edges, populated on reads
	EnrolledCourseIDs []int64 `json:"enrolledCourses"`
}

// HasCourse reports whether the student is enrolled in courseID.
func (s *StudentProfile) HasCourse(courseID int64) bool {
	for _, id := range s.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
