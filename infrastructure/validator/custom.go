package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var nameRegex = regexp.MustCompile(`^[\p{L}'\- ]+$`)

func validateNameWithSpecialChars(fl validator.FieldLevel) bool {
	return nameRegex.MatchString(fl.Field().String())
}
