package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates struct fields against their validate tags.
func ValidateStruct(obj interface{}) error {
	return validate.Struct(obj)
}
