package signup

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt only reads the first 72 bytes of a password
	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Form is the account data submitted with a signup
type Form struct {
	Username string `json:"username" validate:"required,min=3,max=32,excludesall=@"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=128"`
}

// Normalize trims surrounding whitespace from everything but the password
func (f Form) Normalize() Form {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	return f
}

// FieldError is one failed field of a form
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"required":    "%s is required",
	"email":       "%s must be a valid email address",
	"min":         "%s must be at least %s characters",
	"max":         "%s must be at most %s characters",
	"maxbytes":    "%s must be at most %s bytes",
	"excludesall": "%s contains characters that are not allowed",
}

func fieldMessage(e validator.FieldError) string {
	label := strings.ToUpper(e.Field()[:1]) + e.Field()[1:]
	msg, ok := fieldMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", label)
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, label, e.Param())
	}
	return fmt.Sprintf(msg, label)
}

// ValidateForm returns one FieldError per failing field, in declaration order.
// A nil result means the form is valid.
func ValidateForm(form Form) []FieldError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "form", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return out
}
