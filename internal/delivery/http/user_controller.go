package http

import (
	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/ferdian3456/devblog/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserUsecase *usecase.UserUsecase
	Log         *zap.Logger
	Config      *koanf.Koanf
}

func NewUserController(userUsecase *usecase.UserUsecase, zap *zap.Logger, koanf *koanf.Koanf) *UserController {
	return &UserController{
		UserUsecase: userUsecase,
		Log:         zap,
		Config:      koanf,
	}
}

func (controller UserController) Register(ctx *fiber.Ctx) error {
	var payload model.UserRegisterRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	response, err := controller.UserUsecase.Register(ctx.UserContext(), payload)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller UserController) Login(ctx *fiber.Ctx) error {
	var payload model.UserLoginRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	response, err := controller.UserUsecase.Login(ctx.UserContext(), payload)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) GetUserInfo(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	response, err := controller.UserUsecase.GetUserInfo(ctx.UserContext(), userId)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) Logout(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	err = controller.UserUsecase.Logout(ctx.UserContext(), userId)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller UserController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	response, err := controller.UserUsecase.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	var payload model.ProfileUpdateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	response, err := controller.UserUsecase.UpdateProfile(ctx.UserContext(), userId, payload)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) UpdateAvatar(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Avatar is required",
			Param:   "avatar",
		})
	}

	err = controller.UserUsecase.UpdateAvatar(ctx.UserContext(), userId, fileHeader)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller UserController) GetPublicProfile(ctx *fiber.Ctx) error {
	response, err := controller.UserUsecase.GetPublicProfile(ctx.UserContext(), ctx.Params("username"))
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
