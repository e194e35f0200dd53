package utils

import (
	"reflect"
	"strings"

	"github.com/examportal/exam-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct-tag validator with the service's custom rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// validateAnswerKey accepts a non-empty set of option letters A-D, in any
// order, e.g. "B" or "AC".
func validateAnswerKey(fl validator.FieldLevel) bool {
	key := models.ParseAnswerKey(fl.Field().String())
	if key.IsEmpty() || len(key) > 4 {
		return false
	}
	for _, r := range string(key) {
		if r < 'A' || r > 'D' {
			return false
		}
	}
	return true
}

// validateAnswerLetters accepts a submitted selection: same alphabet as
// answer keys but an empty selection is allowed (counts as wrong, not
// malformed).
func validateAnswerLetters(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, r := range value {
		if r < 'A' || r > 'D' {
			return false
		}
	}
	return len(value) <= 4
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("answer_key", validateAnswerKey)
	validate.RegisterValidation("answer_letters", validateAnswerLetters)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
