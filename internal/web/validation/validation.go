// Package validation checks back-office forms with go-playground/validator.
//
// Errors are keyed by the form tag of the failing field so templates can
// show them next to their input.
package validation

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

// Now is the clock used by the notfuture rule.
var Now = time.Now //nolint:gochecknoglobals

var (
	once     sync.Once
	validate *validator.Validate
)

var messages = map[string]string{ //nolint:gochecknoglobals
	"required":  "Ce champ est obligatoire.",
	"max":       "Ce champ est trop long.",
	"notfuture": "La date ne peut pas être postérieure à aujourd'hui.",
	"datetime":  "La date est invalide.",
	"email":     "L'adresse email est invalide.",
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "-" || name == "" {
				return f.Name
			}

			return name
		})

		if err := register(validate, rules); err != nil {
			log.Fatal().Err(err).Msg("cannot register validation rules")
		}
	})

	return validate
}

var rules = map[string]validator.Func{ //nolint:gochecknoglobals
	"notfuture": notFuture,
}

func register(v *validator.Validate, set map[string]validator.Func) error {
	for tag, fn := range set {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errors.Wrapf(err, "rule %q", tag)
		}
	}

	return nil
}

// notFuture accepts an empty value, a time or a date string not after today.
func notFuture(fl validator.FieldLevel) bool {
	today := Now().Format(models.DateInputLayout)

	switch v := fl.Field().Interface().(type) {
	case string:
		if v == "" {
			return true
		}

		d, err := time.Parse(models.DateInputLayout, v)
		if err != nil {
			return false
		}

		return d.Format(models.DateInputLayout) <= today
	case time.Time:
		return v.IsZero() || v.Format(models.DateInputLayout) <= today
	default:
		return false
	}
}

// Struct validates v and returns nil when it is valid.
func Struct(v any) FieldErrors {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}

		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Valeur invalide."
		}

		out[fe.Field()] = msg
	}

	return out
}
