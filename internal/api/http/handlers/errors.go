package handlers

import (
	"errors"

	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// mapServiceError translates service-layer outcomes into the response
// taxonomy. Invalid credentials and unknown account share one response;
// a locked account is a distinguishable failure.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewInvalidCredentials()
	case errors.Is(err, service.ErrAccountLocked):
		return apperrors.NewAccountLocked()
	case errors.Is(err, service.ErrAccountUnverified):
		return apperrors.NewAccountUnverified()
	case errors.Is(err, service.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, service.ErrInvalidToken):
		return apperrors.NewUnauthorized("could not validate credentials")
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.NewNotFound("user", nil)
	}
	return err
}
