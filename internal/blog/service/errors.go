package service

import (
	"net/http"

	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
)

var (
	ErrValidationTitle = commonerrors.NewDomainError(
		"VALIDATION_TITLE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"title is required and must not exceed the maximum length",
	)

	ErrValidationContent = commonerrors.NewDomainError(
		"VALIDATION_CONTENT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"content is required and must not exceed the maximum length",
	)

	ErrValidationEmptyUpdate = commonerrors.NewDomainError(
		"VALIDATION_EMPTY_UPDATE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"at least one of title or content must be provided",
	)

	ErrInvalidPostID = commonerrors.NewDomainError(
		"INVALID_POST_ID",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid post id",
	)

	// One failure for "does not exist" and "not yours": mutations must
	// not reveal which it was.
	ErrPostNotOwned = commonerrors.NewDomainError(
		"POST_NOT_OWNED",
		commonerrors.CategoryUnauthorized,
		http.StatusForbidden,
		"post not found or not owned",
	)
)
