package validator

import (
	"errors"
	"fmt"
	"strings"

	"doctortravel/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=4096"`
}

type VerifyCode struct {
	Code string `json:"code" validate:"required,max=16"`
}

type FederatedCredential struct {
	IDToken string `json:"id_token" validate:"required"`
}

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

type LoginValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLoginValidator(log *logger.Logger) *LoginValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	return &LoginValidator{
		validate: v,
		logger:   log,
	}
}

func (v *LoginValidator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
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
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}

		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}

	return out
}
