package http

import (
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/ferdian3456/devblog/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LikeController struct {
	LikeUsecase *usecase.LikeUsecase
	Log         *zap.Logger
}

func NewLikeController(likeUsecase *usecase.LikeUsecase, zap *zap.Logger) *LikeController {
	return &LikeController{
		LikeUsecase: likeUsecase,
		Log:         zap,
	}
}

func (controller LikeController) ToggleLike(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	response, err := controller.LikeUsecase.ToggleLike(ctx.UserContext(), userId, postId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller LikeController) GetLikeStatus(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	response, err := controller.LikeUsecase.GetLikeStatus(ctx.UserContext(), userId, postId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
