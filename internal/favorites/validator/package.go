package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PackageValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPackageValidator(log *logger.Logger) *PackageValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &PackageValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a package sent by a client for favoriting. The id must be
// the numeric key of its table.
func (v *PackageValidator) Validate(pkg *model.Package) error {
	if err := v.validate.Struct(pkg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}

	if _, err := pkg.NumericID(); err != nil {
		return ValidationErrors{{Field: "id", Message: "id must be numeric"}}
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
