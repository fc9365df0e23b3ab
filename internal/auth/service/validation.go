package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/inkpress/inkpress/backend/internal/common/constants"
)

var validate = validator.New()

func validateCredentials(username, password string) error {
	if username == "" || len(username) > constants.UsernameMaxLength {
		return ErrValidationUsernameEmail
	}

	if err := validate.Var(username, "required,email"); err != nil {
		return ErrValidationUsernameEmail
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidationPasswordLength
	}

	return nil
}

func validateName(name string) error {
	if len(name) > constants.NameMaxLength {
		return ErrValidationNameLength
	}
	return nil
}
