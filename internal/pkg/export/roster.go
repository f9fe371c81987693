// Package export renders student rosters as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// RosterSheet is the worksheet name of the student roster
const RosterSheet = "Students"

// RosterContentType is the MIME type of the generated workbook
const RosterContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var rosterHeader = []any{
	"ID", "Student ID", "Name", "Email", "Phone", "Father Name",
	"Blood Group", "Date of Birth", "Admission Date", "Courses",
}

// WriteStudentRoster writes one row per student. courseNames resolves
// enrolled course ids; unknown ids are written as "#<id>".
func WriteStudentRoster(w io.Writer, students []*models.StudentProfile, courseNames map[int64]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(RosterSheet, "A1", &rosterHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(RosterSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			s.ID,
			deref(s.ExternalStudentID),
			s.Name,
			s.Email,
			s.Phone,
			deref(s.FatherName),
			deref(s.BloodGroup),
			formatDate(s.DOB),
			s.AdmissionDate.Format(helpers.DateLayout),
			courseList(s.EnrolledCourseIDs, courseNames),
		}
		if err := f.SetSheetRow(RosterSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(RosterSheet, "B", "J", 18); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func courseList(ids []int64, names map[int64]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("#%d", id))
		}
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(helpers.DateLayout)
}
