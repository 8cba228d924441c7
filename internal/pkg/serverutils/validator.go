package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"td-generator-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// selection types embedded in requests use it
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest runs the `validate` tags of a request DTO.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("invalid request", err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		switch fe.Tag() {
		case "required":
			fields = append(fields, name+" is required")
		case "min", "gte":
			fields = append(fields, fmt.Sprintf("%s must be at least %s", name, fe.Param()))
		case "max", "lte":
			fields = append(fields, fmt.Sprintf("%s must be at most %s", name, fe.Param()))
		case "gt":
			fields = append(fields, fmt.Sprintf("%s must be greater than %s", name, fe.Param()))
		default:
			fields = append(fields, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}
	return apperror.Validation("invalid request", fields...)
}
