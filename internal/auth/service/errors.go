package service

import (
	"net/http"

	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
)

// Signup and signin report failures through one 400 status; the envelope
// code is what distinguishes validation from conflict from bad
// credentials.
var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusBadRequest,
		"invalid username or password",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"username already taken",
	)

	ErrValidationUsernameEmail = commonerrors.NewDomainError(
		"VALIDATION_USERNAME_EMAIL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username must be a valid email address",
	)

	ErrValidationPasswordLength = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password must be between 6 and 72 characters",
	)

	ErrValidationNameLength = commonerrors.NewDomainError(
		"VALIDATION_NAME_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"name is too long",
	)
)
