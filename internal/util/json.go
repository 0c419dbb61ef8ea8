package util

import (
	"errors"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReadRequestBody(ctx *fiber.Ctx, result interface{}) error {
	err := ctx.BodyParser(result)
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseNoData(ctx *fiber.Ctx) error {
	err := ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "OK",
	})
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusOK).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendSuccessResponseCreated(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusCreated).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponse(ctx *fiber.Ctx, error error) error {
	return sendErrorResponseWithStatus(ctx, fiber.StatusBadRequest, error)
}

func SendErrorResponseUnauthorized(ctx *fiber.Ctx, error error) error {
	return sendErrorResponseWithStatus(ctx, fiber.StatusUnauthorized, error)
}

func SendErrorResponseForbidden(ctx *fiber.Ctx, error error) error {
	return sendErrorResponseWithStatus(ctx, fiber.StatusForbidden, error)
}

func SendErrorResponseNotFound(ctx *fiber.Ctx, error error) error {
	return sendErrorResponseWithStatus(ctx, fiber.StatusNotFound, error)
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	log.Error("internal server error occured", zap.Error(error))
	err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
			"message": constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
		},
	})

	if err != nil {
		return err
	}

	return nil
}

// SendUsecaseError maps a usecase error onto its HTTP status. Anything that is
// not a known domain error is logged and answered with 500.
func SendUsecaseError(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var authenticationErr *model.AuthenticationError
	var authorizationErr *model.AuthorizationError
	var storageErr *model.StorageError

	switch {
	case errors.As(err, &validationErr):
		return SendErrorResponse(ctx, validationErr)
	case errors.As(err, &notFoundErr):
		return SendErrorResponseNotFound(ctx, notFoundErr)
	case errors.As(err, &authenticationErr):
		return SendErrorResponseUnauthorized(ctx, authenticationErr)
	case errors.As(err, &authorizationErr):
		return SendErrorResponseForbidden(ctx, authorizationErr)
	case errors.As(err, &storageErr):
		log.Error("storage error occured", zap.String("op", storageErr.Op), zap.Error(storageErr.Err))
		return sendErrorResponseWithStatus(ctx, fiber.StatusInternalServerError, &model.ValidationError{
			Code:    constant.ERR_STORAGE_ERROR,
			Message: constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
		})
	default:
		return SendErrorResponseInternalServer(ctx, log, err)
	}
}

func sendErrorResponseWithStatus(ctx *fiber.Ctx, status int, error error) error {
	err := ctx.Status(status).JSON(fiber.Map{
		"error": error,
	})
	if err != nil {
		return err
	}

	return nil
}
