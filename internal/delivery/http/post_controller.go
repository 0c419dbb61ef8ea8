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

type PostController struct {
	PostUsecase *usecase.PostUsecase
	Log         *zap.Logger
	Config      *koanf.Koanf
}

func NewPostController(postUsecase *usecase.PostUsecase, zap *zap.Logger, koanf *koanf.Koanf) *PostController {
	return &PostController{
		PostUsecase: postUsecase,
		Log:         zap,
		Config:      koanf,
	}
}

func (controller PostController) CreatePost(ctx *fiber.Ctx) error {
	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	var payload model.PostCreateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	response, err := controller.PostUsecase.CreatePost(ctx.UserContext(), userId, payload)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller PostController) GetPosts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", constant.DEFAULT_LIMIT)
	cursor := ctx.Query("cursor", "")

	response, err := controller.PostUsecase.GetPosts(ctx.UserContext(), limit, cursor)
	if err != nil {
		return util.SendUsecaseError(ctx, middleware.GetLoggerFromContext(ctx, controller.Log), err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PostController) GetPost(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	response, err := controller.PostUsecase.GetPost(ctx.UserContext(), postId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PostController) UpdatePost(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	var payload model.PostUpdateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	response, err := controller.PostUsecase.UpdatePost(ctx.UserContext(), userId, postId, payload)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PostController) DeletePost(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	err = controller.PostUsecase.DeletePost(ctx.UserContext(), userId, postId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
