package usecase

import (
	"errors"

	"github.com/ferdian3456/devblog/internal/model"
)

// storageError passes domain errors through untouched and wraps everything else.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var authenticationErr *model.AuthenticationError
	var authorizationErr *model.AuthorizationError
	var storageErr *model.StorageError

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &authenticationErr),
		errors.As(err, &authorizationErr),
		errors.As(err, &storageErr):
		return err
	default:
		return &model.StorageError{Op: op, Err: err}
	}
}
