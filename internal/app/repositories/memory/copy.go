package memory

import (
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
)

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyAccount(a *models.Account) *models.Account {
	out := *a
	out.LinkedProfileID = copyInt64(a.LinkedProfileID)
	return &out
}

func copyOrganization(o *models.Organization) *models.Organization {
	out := *o
	out.Website = copyString(o.Website)
	out.RegistrationNo = copyString(o.RegistrationNo)
	out.EstablishDate = copyTime(o.EstablishDate)
	out.Address = copyString(o.Address)
	out.BannerURL = copyString(o.BannerURL)
	return &out
}

// copyCourse drops the enrollment projection; readers rebuild it from the edges
func copyCourse(c *models.CourseOffering) *models.CourseOffering {
	out := *c
	out.EnrolledStudentIDs = nil
	return &out
}

func copyStudent(s *models.StudentProfile) *models.StudentProfile {
	out := *s
	out.ExternalStudentID = copyString(s.ExternalStudentID)
	out.FatherName = copyString(s.FatherName)
	out.BloodGroup = copyString(s.BloodGroup)
	out.DOB = copyTime(s.DOB)
	out.EnrolledCourseIDs = nil
	return &out
}
