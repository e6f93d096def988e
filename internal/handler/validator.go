package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Bind targets carry `validate` tags; handlers call c.Validate after
// binding and answer 400 validation_failed on error.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds the request validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate implements echo.Validator.
func (val *Validator) Validate(i interface{}) error {
	return val.v.Struct(i)
}
