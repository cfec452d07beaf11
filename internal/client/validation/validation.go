// Package validation checks forms locally before anything reaches the
// network. Failures come back as a field→message map keyed by the form's
// field names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/voatnetwork/voat/internal/client/models"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Messages maps a form field name to the message shown when it fails.
type Messages map[string]string

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates s and maps every failing field to its message. The first
// failure per field wins. Fields without a message get a generic one.
func (v *Validator) Struct(s any, msgs Messages) models.ErrorMap {
	errs := models.ErrorMap{}
	err := v.v.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["general"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := msgs[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = field + " is invalid"
		}
	}
	return errs
}
