package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo que no pasó la validación estructural.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Tag)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct valida las etiquetas `validate` de un DTO y devuelve los campos
// fallidos; nil si todo está bien.
func Struct(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Tag: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Describe concatena los errores de campo en un mensaje legible.
func Describe(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
