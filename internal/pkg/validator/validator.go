package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Visit type validation
	validate.RegisterValidation("visit_type", func(fl validator.FieldLevel) bool {
		visitType := fl.Field().String()
		validTypes := []string{"clinic", "home", "video", ""}
		for _, t := range validTypes {
			if visitType == t {
				return true
			}
		}
		return false
	})

	// Appointment date: YYYY-MM-DD
	validate.RegisterValidation("ymd_date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 10 || s[4] != '-' || s[7] != '-' {
			return false
		}
		for i, c := range s {
			if i == 4 || i == 7 {
				continue
			}
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})

	// Appointment time: HH:MM
	validate.RegisterValidation("hm_time", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 5 || s[2] != ':' {
			return false
		}
		for i, c := range s {
			if i == 2 {
				continue
			}
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "visit_type":
			errors[field] = "Invalid visit type. Must be: clinic, home, or video"
		case "ymd_date":
			errors[field] = "Invalid date. Expected format: YYYY-MM-DD"
		case "hm_time":
			errors[field] = "Invalid time. Expected format: HH:MM"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
