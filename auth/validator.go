package auth

import (
	"chat-client/errors"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RegisterRequest follows the server's own rules: a username, an email and at least 6 characters of password.
type RegisterRequest struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func ValidateLogin(req LoginRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	return check(req)
}

func ValidateRegister(req RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	return check(req)
}

// check wraps every field error in ErrInvalidCredentials with a readable summary.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return err
	}
	fields := lo.Map(fieldErrors, func(fe validator.FieldError, _ int) string {
		return fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag())
	})
	return fmt.Errorf("%w: %s", errors.ErrInvalidCredentials, strings.Join(fields, ", "))
}
