package booking

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateTimeLayout is the minute-precision layout of the start and end fields
const DateTimeLayout = "2006-01-02T15:04"

const (
	MinDuration = 15
	MaxDuration = 480
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("minutes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= MinDuration && n <= MaxDuration
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(Form)
		start, err1 := time.ParseInLocation(DateTimeLayout, f.Start, time.Local)
		end, err2 := time.ParseInLocation(DateTimeLayout, f.End, time.Local)
		if err1 == nil && err2 == nil && !end.After(start) {
			sl.ReportError(f.End, "end", "End", "after_start", "")
		}
	}, Form{})

	return v
}

// ValidationError maps field names to messages
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Fields returns the failing field names in a stable order
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e *ValidationError) Error() string {
	var messages []string
	for _, f := range e.Fields() {
		messages = append(messages, e.Errors[f])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of %s", field, err.Param())
		case "datetime":
			out[field] = fmt.Sprintf("%s must be a date and time (YYYY-MM-DDTHH:MM)", field)
		case "minutes":
			out[field] = fmt.Sprintf("%s must be between %d and %d minutes", field, MinDuration, MaxDuration)
		case "after_start":
			out[field] = fmt.Sprintf("%s must be after start", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return &ValidationError{Errors: out}
}

// Validate checks the form before submission
func (f *Form) Validate() error {
	if err := validate.Struct(*f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return newValidationError(verrs)
		}
		return fmt.Errorf("validate form: %w", err)
	}
	return nil
}
