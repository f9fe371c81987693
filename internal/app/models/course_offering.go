package models

import "time"

// CourseOffering is a course sold by one organization
type CourseOffering struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Duration       string    `json:"duration" db:"duration"`
	Fee            float64   `json:"fee" db:"fee"`
	ImageURL       string    `json:"image" db:"image_url"`
	Description    string    `json:"description" db:"description"`
	OrganizationID int64     `json:"organizationId" db:"organization_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Projection of the enrollment edges, populated on reads
	EnrolledStudentIDs []int64 `json:"enrolledStudents"`
}

// HasStudent reports whether studentID is enrolled in the course.
func (c *CourseOffering) HasStudent(studentID int64) bool {
	for _, id := range c.EnrolledStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
