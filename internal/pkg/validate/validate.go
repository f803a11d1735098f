package validate

import (
	"errors"
	"reflect"
	"strings"

	"mfi-backoffice/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report json field names instead of Go field names
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// notblank rejects strings that are empty once trimmed
	_ = val.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = val.RegisterValidation("appstatus", func(fl validator.FieldLevel) bool {
		return domain.ApplicationStatus(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("productstatus", func(fl validator.FieldLevel) bool {
		return domain.ProductStatus(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("relation", func(fl validator.FieldLevel) bool {
		return domain.DocumentRelation(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("doccategory", func(fl validator.FieldLevel) bool {
		return domain.DocumentCategory(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("docstatus", func(fl validator.FieldLevel) bool {
		return domain.DocumentStatus(fl.Field().String()).Valid()
	})

	return val
}

// Struct validates s against its `validate` tags and converts failures into
// a *domain.ValidationError carrying one entry per offending field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewValidationError("Invalid request", err.Error())
	}

	fields := ToFieldErrors(ve)
	var missing []string
	for _, e := range ve {
		if e.Tag() == "required" || e.Tag() == "notblank" {
			missing = append(missing, e.Field())
		}
	}

	out := &domain.ValidationError{Fields: fields}
	if len(missing) > 0 {
		out.Message = "Missing required fields"
		out.Detail = strings.Join(missing, ", ")
	} else {
		out.Message = "Invalid request"
		out.Detail = fields[0].Field + " " + fields[0].Message
	}
	return out
}

// ToFieldErrors maps validator errors to readable per-field messages
func ToFieldErrors(ve validator.ValidationErrors) []domain.FieldError {
	out := make([]domain.FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, domain.FieldError{Field: field, Message: "is required"})
		case "notblank":
			out = append(out, domain.FieldError{Field: field, Message: "must not be blank"})
		case "email":
			out = append(out, domain.FieldError{Field: field, Message: "must be a valid email address"})
		case "gt":
			out = append(out, domain.FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, domain.FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, domain.FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "min":
			out = append(out, domain.FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		case "max":
			out = append(out, domain.FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "datetime":
			out = append(out, domain.FieldError{Field: field, Message: "must be a date formatted as YYYY-MM-DD"})
		case "appstatus":
			out = append(out, domain.FieldError{Field: field, Message: "must be one of Pending, Under Review, Approved, Rejected"})
		case "productstatus":
			out = append(out, domain.FieldError{Field: field, Message: "must be Active or Inactive"})
		case "role":
			out = append(out, domain.FieldError{Field: field, Message: "must be admin, manager or officer"})
		case "relation":
			out = append(out, domain.FieldError{Field: field, Message: "must be Application, Product, User, Branch or Other"})
		case "doccategory":
			out = append(out, domain.FieldError{Field: field, Message: "is not a known document category"})
		case "docstatus":
			out = append(out, domain.FieldError{Field: field, Message: "must be Active, Archived or Deleted"})
		default:
			out = append(out, domain.FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
