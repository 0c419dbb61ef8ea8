package http

import (
	"fmt"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Invalid %s", name),
			Param:   name,
		}
	}

	return id, nil
}

func sendInvalidRequestBody(ctx *fiber.Ctx) error {
	return util.SendErrorResponse(ctx, &model.ValidationError{
		Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
		Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
	})
}

// callerId reads the user id stored by ProtectedRoute.
func callerId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := ctx.Locals("userId").(uuid.UUID)
	if !ok || userId == uuid.Nil {
		return uuid.Nil, &model.AuthenticationError{
			Code:    constant.ERR_UNAUTHORIZED_ERROR,
			Message: "Authentication is required",
			Param:   "accessToken",
		}
	}

	return userId, nil
}
