package validation

import (
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// Custom validation tags
const (
	tagPhone10    = "phone10"
	tagPhone      = "phone"
	tagISODate    = "isodate"
	tagBloodGroup = "bloodgroup"
)

// Validation rule patterns
var (
	// Phone10Pattern matches exactly ten digits
	Phone10Pattern = `^\d{10}$`

	// PhonePattern matches ten to fifteen digits
	PhonePattern = `^\d{10,15}$`

	// BloodGroups lists the accepted ABO/Rh groups
	BloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone10 *regexp.Regexp
	Phone   *regexp.Regexp
}{
	Phone10: regexp.MustCompile(Phone10Pattern),
	Phone:   regexp.MustCompile(PhonePattern),
}

// customMessages are the English messages for the custom tags. {0} is the field name.
var customMessages = map[string]string{
	tagPhone10:    "{0} must be exactly 10 digits",
	tagPhone:      "{0} must be between 10 and 15 digits",
	tagISODate:    "{0} must be a date in YYYY-MM-DD format",
	tagBloodGroup: "{0} must be one of " + strings.Join(BloodGroups, ", "),
}

func phone10Validation(fl validator.FieldLevel) bool {
	return CompiledPatterns.Phone10.MatchString(fl.Field().String())
}

func phoneValidation(fl validator.FieldLevel) bool {
	return CompiledPatterns.Phone.MatchString(fl.Field().String())
}

func isoDateValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := helpers.ParseDate(value)
	return err == nil
}

func bloodGroupValidation(fl validator.FieldLevel) bool {
	return slices.Contains(BloodGroups, strings.ToUpper(fl.Field().String()))
}
