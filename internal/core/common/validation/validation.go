package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	errors "github.com/frahmantamala/hr-management/internal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// dateTimeLayouts are the ISO 8601 forms accepted for timestamps. Seconds,
// fractions and the offset are optional; a missing offset means UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case *int64:
			missing = v == nil || *v == 0
		case time.Time:
			missing = v.IsZero()
		case *time.Time:
			missing = v == nil || v.IsZero()
		}
		if missing {
			return errors.NewValidationFieldError(fv.FieldName, "This field is required.", errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" {
			if utf8.RuneCountInString(v) < min {
				message := fmt.Sprintf("Ensure this field has at least %d characters.", min)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok {
			if utf8.RuneCountInString(v) > max {
				message := fmt.Sprintf("Ensure this field has no more than %d characters.", max)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeTooLong)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" {
			if !IsEmail(v) {
				return errors.NewValidationFieldError(fv.FieldName, "Enter a valid email address.", errors.ErrCodeInvalidEmail)
			}
		}
		return nil
	})
	return fv
}

// Date checks the value parses as YYYY-MM-DD. Empty values are left to Required.
func (fv *FieldValidator) Date() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" {
			if _, err := time.Parse(DateLayout, v); err != nil {
				return errors.NewValidationFieldError(fv.FieldName, "Date has wrong format. Use YYYY-MM-DD.", errors.ErrCodeInvalidDate)
			}
		}
		return nil
	})
	return fv
}

// DateTime checks the value parses as an ISO 8601 timestamp. Empty values are left to Required.
func (fv *FieldValidator) DateTime() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" {
			if _, err := ParseDateTime(v); err != nil {
				return errors.NewValidationFieldError(fv.FieldName,
					"Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z].",
					errors.ErrCodeInvalidDateTime)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(choices ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		for _, c := range choices {
			if v == c {
				return nil
			}
		}
		message := fmt.Sprintf("\"%s\" is not a valid choice.", v)
		return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeInvalidChoice)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field validator and aggregates the failures. Only the
// first failing validator of a field is reported.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <a@b>"; only bare addresses are valid here.
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

// ParseDate parses a YYYY-MM-DD value as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseDateTime parses an ISO 8601 timestamp and returns it in UTC.
func ParseDateTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}
