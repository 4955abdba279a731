package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the shared validator instance over a request struct's
// `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
