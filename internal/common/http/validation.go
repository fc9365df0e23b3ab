package http

import (
	"github.com/google/uuid"

	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
)

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrEmptyUUID
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrInvalidUUID
	}
	return nil
}
