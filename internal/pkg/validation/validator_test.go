package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func ptr[T any](v T) *T { return &v }

func TestStruct_StudentInput(t *testing.T) {
	valid := dto.StudentInput{Name: "A", Email: "a@x.com", Phone: "1234567890"}
	require.NoError(t, Struct(valid))

	err := Struct(dto.StudentInput{Email: "nope", Phone: "123", DOB: "31-12-2001", BloodGroup: "C+"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	for _, field := range []string{"name", "email", "phone", "dob", "bloodGroup"} {
		assert.True(t, ve.HasField(field), "expected failure for %s", field)
	}
	assert.Len(t, ve.Fields, 5)
}

func TestStruct_StudentEditInputIsStricter(t *testing.T) {
	err := Struct(dto.StudentEditInput{Name: "A", Email: "a@x.com", Phone: "123456789012"})

	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasField("studentId"))
	assert.True(t, ve.HasField("fatherName"))
	assert.True(t, ve.HasField("bloodGroup"))
	assert.False(t, ve.HasField("phone"), "12 digits is a valid edit phone")
}

func TestStruct_InstitutionGeoLocation(t *testing.T) {
	base := dto.InstitutionInput{Name: "Academy", Email: "info@academy.edu", Phone: "0123456789"}

	err := Struct(base)
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []apperrors.FieldError{{Field: "geoLocation", Message: ve.Fields[0].Message}}, ve.Fields)

	base.GeoLocation = &dto.GeoLocationInput{Lat: ptr(123.0), Lng: ptr(0.0)}
	err = Struct(base)
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasField("geoLocation.lat"))
	assert.False(t, ve.HasField("geoLocation.lng"), "zero longitude is a real coordinate")

	base.GeoLocation.Lat = ptr(23.81)
	require.NoError(t, Struct(base))
}

func TestStruct_CourseFee(t *testing.T) {
	course := dto.CourseInput{Name: "Go", Duration: "3 months", Description: "Learn Go"}

	var ve *apperrors.ValidationError
	require.True(t, errors.As(Struct(course), &ve))
	assert.True(t, ve.HasField("fee"))

	course.Fee = ptr(-1.0)
	require.True(t, errors.As(Struct(course), &ve))
	assert.True(t, ve.HasField("fee"))

	course.Fee = ptr(0.0)
	require.NoError(t, Struct(course))
}

func TestCustomMessages(t *testing.T) {
	var ve *apperrors.ValidationError
	require.True(t, errors.As(Struct(dto.StudentInput{Name: "A", Email: "a@x.com", Phone: "12"}), &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "phone must be exactly 10 digits", ve.Fields[0].Message)
}

func TestCheckNeverNil(t *testing.T) {
	ve := Check(dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NotNil(t, ve)
	assert.False(t, ve.HasErrors())
}
