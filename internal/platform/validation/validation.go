// Package validation wires custom binding rules into gin's validator engine.
package validation

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fundops_backend/internal/shared/isin"
)

// RegisterBindingRules installs the custom binding rules the request DTOs
// declare. It must run before the first request is bound; calling it again
// is harmless.
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not a *validator.Validate")
	}

	// `isin` accepts any casing; adapters store the uppercase form.
	return v.RegisterValidation("isin", func(fl validator.FieldLevel) bool {
		return isin.Valid(strings.ToUpper(fl.Field().String()))
	})
}
