package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OtherClass is the catch-all main class; choosing it requires a redshift.
const OtherClass = "Other"

// ClassificationForm is a human classification as submitted.
type ClassificationForm struct {
	SNType        string   `json:"sn_type" form:"sn_type" validate:"required,max=50"`
	Redshift      *float64 `json:"redshift" form:"redshift"`
	Subtype       string   `json:"subtype" form:"subtype" validate:"max=100"`
	Comments      string   `json:"comments" form:"comments"`
	ObservationID *int64   `json:"obs_id" form:"obs_id"`
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(classificationFormRules, ClassificationForm{})
	return v
}

func classificationFormRules(sl validator.StructLevel) {
	form := sl.Current().Interface().(ClassificationForm)
	if form.SNType == OtherClass && (form.Redshift == nil || *form.Redshift == 0) {
		sl.ReportError(form.Redshift, "redshift", "Redshift", "required_for_other", "")
	}
}

// Normalize trims free-text fields in place. An empty obs_id binds as 0
// and is cleared.
func (f *ClassificationForm) Normalize() {
	f.SNType = strings.TrimSpace(f.SNType)
	f.Subtype = strings.TrimSpace(f.Subtype)
	f.Comments = strings.TrimSpace(f.Comments)
	if f.ObservationID != nil && *f.ObservationID <= 0 {
		f.ObservationID = nil
	}
}

// Validate returns nil when the form is acceptable.
func (f ClassificationForm) Validate() FieldErrors {
	f.Normalize()
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "required_for_other":
		return fmt.Sprintf("This field is required when %q is selected.", OtherClass)
	default:
		return "Invalid value."
	}
}
