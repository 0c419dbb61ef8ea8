package http

import (
	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CommentController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
}

func NewCommentController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger) *CommentController {
	return &CommentController{
		CommentUsecase: commentUsecase,
		Log:            zap,
	}
}

func (controller CommentController) CreateComment(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	var payload model.CommentCreateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidRequestBody(ctx)
	}

	var parentId *uuid.UUID
	if payload.ParentId != nil {
		id, err := uuid.Parse(*payload.ParentId)
		if err != nil {
			return util.SendErrorResponse(ctx, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Invalid parentId",
				Param:   "parentId",
			})
		}
		parentId = &id
	}

	response, err := controller.CommentUsecase.AddComment(ctx.UserContext(), userId, postId, payload.Content, parentId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller CommentController) GetComments(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	postId, err := parseUUIDParam(ctx, "postId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	comments, err := controller.CommentUsecase.ListComments(ctx.UserContext(), postId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseWithData(ctx, model.CommentListResponse{Data: comments})
}

func (controller CommentController) DeleteComment(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	userId, err := callerId(ctx)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	commentId, err := parseUUIDParam(ctx, "commentId")
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	err = controller.CommentUsecase.DeleteComment(ctx.UserContext(), userId, commentId)
	if err != nil {
		return util.SendUsecaseError(ctx, log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
