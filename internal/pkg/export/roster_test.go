package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/campusdesk/internal/app/models"
)

func TestWriteStudentRoster(t *testing.T) {
	blood := "O+"
	dob := time.Date(2001, 5, 17, 0, 0, 0, 0, time.UTC)
	students := []*models.StudentProfile{
		{
			ID: 7, Name: "Ayesha", Email: "a@x.com", Phone: "0123456789",
			BloodGroup: &blood, DOB: &dob,
			AdmissionDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			EnrolledCourseIDs: []int64{1, 9},
		},
		{ID: 8, Name: "Bilal", Email: "b@x.com", Phone: "0987654321", AdmissionDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudentRoster(&buf, students, map[int64]string{1: "Go Basics"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][2])
	assert.Equal(t, "Ayesha", rows[1][2])
	assert.Equal(t, "O+", rows[1][6])
	assert.Equal(t, "2001-05-17", rows[1][7])
	assert.Equal(t, "Go Basics, #9", rows[1][9])
	assert.Equal(t, "Bilal", rows[2][2])
}
