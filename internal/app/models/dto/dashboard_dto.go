package dto

import "github.com/yigit/campusdesk/internal/app/models"

// AdminDashboard aggregates system-wide counts
type AdminDashboard struct {
	TotalInstitutions  int64                    `json:"totalInstitutions"`
	TotalStudents      int64                    `json:"totalStudents"`
	TotalCourses       int64                    `json:"totalCourses"`
	RecentInstitutions []*models.Organization   `json:"recentInstitutions"`
	RecentStudents     []*models.StudentProfile `json:"recentStudents"`
}

// InstitutionDashboard aggregates counts for one organization
type InstitutionDashboard struct {
	TotalCourses   int64                    `json:"totalCourses"`
	TotalStudents  int64                    `json:"totalStudents"`
	RecentCourses  []*models.CourseOffering `json:"recentCourses"`
	RecentStudents []*models.StudentProfile `json:"recentStudents"`
}
