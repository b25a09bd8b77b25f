package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its messages
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

var validate = validator.New()

func init() {
	// report form field names rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct checks every validate tag of data
func ValidateStruct(data interface{}) FieldErrors {
	return collect(validate.Struct(data))
}

// ValidatePresent checks only the string fields that were filled in, so a
// partial edit form can leave fields blank
func ValidatePresent(data interface{}) FieldErrors {
	v := reflect.Indirect(reflect.ValueOf(data))
	if v.Kind() != reflect.Struct {
		return nil
	}
	var present []string
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && strings.TrimSpace(f.String()) != "" {
			present = append(present, v.Type().Field(i).Name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return collect(validate.StructPartial(data, present...))
}

func collect(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": {err.Error()}}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "number", "numeric":
		return "Enter a whole number."
	case "datetime":
		return fmt.Sprintf("Enter a date as %s.", "YYYY-MM-DD")
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
