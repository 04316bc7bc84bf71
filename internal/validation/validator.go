package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the configured validator shared by the order routes.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

// ErrorsToMap flattens validation errors into field -> message pairs for
// the error payload returned to the client.
func ErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
