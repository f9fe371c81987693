// Package validation checks request structs against their `validate` tags
// and reports every failing field at once.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(tagPhone10, phone10Validation)
	_ = validate.RegisterValidation(tagPhone, phoneValidation)
	_ = validate.RegisterValidation(tagISODate, isoDateValidation)
	_ = validate.RegisterValidation(tagBloodGroup, bloodGroupValidation)

	for tag, message := range customMessages {
		registerTranslation(tag, message)
	}
}

func registerTranslation(tag, message string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// Struct validates v and returns a *apperrors.ValidationError listing every
// failed field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError().Add("", err.Error())
	}
	return FromFieldErrors(fieldErrs)
}

// Check is Struct that returns the concrete collector, so callers can merge
// their own failures into it. It never returns nil.
func Check(v any) *apperrors.ValidationError {
	var ve *apperrors.ValidationError
	if err := Struct(v); err != nil && errors.As(err, &ve) {
		return ve
	}
	return apperrors.NewValidationError()
}

// FromFieldErrors converts validator output into the application error type.
func FromFieldErrors(fieldErrs validator.ValidationErrors) *apperrors.ValidationError {
	out := apperrors.NewValidationError()
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), fe.Translate(translator))
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so nested
// fields read as "geoLocation.lat".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
