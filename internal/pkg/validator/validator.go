// internal/pkg/validator/validator.go
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single failed struct field validation.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid %s: failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("invalid %s: failed %s", e.Field, e.Tag)
}

// ValidateStruct runs tag-based validation and returns one entry per
// failed field.
func ValidateStruct(data interface{}) []*FieldError {
	var errs []*FieldError
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, &FieldError{
				Field: fe.StructNamespace(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return errs
}
