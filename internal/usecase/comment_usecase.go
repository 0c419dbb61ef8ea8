package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReplyNotifier is told about replies to someone else's comment. It must not block.
type ReplyNotifier interface {
	NotifyReply(parent model.Comment, reply model.Comment)
}

type CommentUsecase struct {
	CommentRepository repository.CommentStore
	PostRepository    repository.PostLookup
	UserRepository    repository.UsernameResolver
	Notifier          ReplyNotifier
	Log               *zap.Logger
}

func NewCommentUsecase(commentRepository repository.CommentStore, postRepository repository.PostLookup, userRepository repository.UsernameResolver, notifier ReplyNotifier, zap *zap.Logger) *CommentUsecase {
	return &CommentUsecase{
		CommentRepository: commentRepository,
		PostRepository:    postRepository,
		UserRepository:    userRepository,
		Notifier:          notifier,
		Log:               zap,
	}
}

func (usecase *CommentUsecase) AddComment(ctx context.Context, callerId uuid.UUID, postId uuid.UUID, content string, parentId *uuid.UUID) (model.Comment, error) {
	log := observability.WithContext(ctx, usecase.Log)

	if strings.TrimSpace(content) == "" {
		return model.Comment{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Comment content is required to not be empty",
			Param:   "content",
		}
	}

	_, err := usecase.PostRepository.GetPostAuthor(ctx, postId)
	if err != nil {
		return model.Comment{}, storageError("get post author", err)
	}

	var parent *model.Comment
	if parentId != nil {
		parentComment, err := usecase.CommentRepository.GetCommentById(ctx, *parentId)
		if err != nil {
			var notFoundErr *model.NotFoundError
			if errors.As(err, &notFoundErr) {
				return model.Comment{}, parentNotFound()
			}
			return model.Comment{}, storageError("get parent comment", err)
		}

		if parentComment.PostId != postId {
			return model.Comment{}, parentNotFound()
		}

		parent = &parentComment
	}

	comment, err := usecase.CommentRepository.InsertComment(ctx, model.Comment{
		PostId:   postId,
		AuthorId: callerId,
		ParentId: parentId,
		Content:  content,
	})
	if err != nil {
		return model.Comment{}, storageError("insert comment", err)
	}

	log.Debug("comment created",
		zap.String("commentId", comment.Id.String()),
		zap.String("postId", postId.String()),
		zap.Bool("reply", parent != nil),
	)

	if parent != nil && parent.AuthorId != callerId && usecase.Notifier != nil {
		usecase.Notifier.NotifyReply(*parent, comment)
	}

	return comment, nil
}

func (usecase *CommentUsecase) ListComments(ctx context.Context, postId uuid.UUID) ([]model.CommentTreeResponse, error) {
	log := observability.WithContext(ctx, usecase.Log)

	comments, err := usecase.CommentRepository.ListCommentsByPost(ctx, postId)
	if err != nil {
		return nil, storageError("list comments", err)
	}

	roots := util.BuildCommentTree(comments)

	authorIds := []uuid.UUID{}
	seen := make(map[uuid.UUID]bool, len(comments))
	for _, comment := range comments {
		if !seen[comment.AuthorId] {
			seen[comment.AuthorId] = true
			authorIds = append(authorIds, comment.AuthorId)
		}
	}

	usernames, err := usecase.UserRepository.ResolveUsernames(ctx, authorIds)
	if err != nil {
		log.Warn("failed to resolve comment authors", zap.String("postId", postId.String()), zap.Error(err))
		usernames = map[uuid.UUID]string{}
	}

	return decorateCommentTree(roots, usernames), nil
}

func (usecase *CommentUsecase) DeleteComment(ctx context.Context, callerId uuid.UUID, commentId uuid.UUID) error {
	log := observability.WithContext(ctx, usecase.Log)

	comment, err := usecase.CommentRepository.GetCommentById(ctx, commentId)
	if err != nil {
		return storageError("get comment", err)
	}

	if comment.AuthorId != callerId {
		return &model.AuthorizationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not the author of this comment",
			Param:   "commentId",
		}
	}

	deleted := 0

	err = usecase.CommentRepository.WithinTx(ctx, func(store repository.CommentStore) error {
		comments, err := store.ListCommentsByPost(ctx, comment.PostId)
		if err != nil {
			return err
		}

		subtree := util.CollectCommentSubtree(comments, comment.Id)
		if len(subtree) == 0 {
			return &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Comment not found",
				Param:   "commentId",
			}
		}

		// Leaves first
		for i := len(subtree) - 1; i >= 0; i-- {
			err := store.DeleteCommentById(ctx, subtree[i])
			if err != nil {
				var notFoundErr *model.NotFoundError
				if errors.As(err, &notFoundErr) {
					continue
				}
				return err
			}
			deleted++
		}

		return nil
	})
	if err != nil {
		var notFoundErr *model.NotFoundError
		if errors.As(err, &notFoundErr) {
			return err
		}
		return &model.StorageError{Op: "delete comment subtree", Err: err}
	}

	log.Debug("comment subtree deleted",
		zap.String("commentId", commentId.String()),
		zap.Int("deleted", deleted),
	)

	return nil
}

func parentNotFound() *model.NotFoundError {
	return &model.NotFoundError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "Parent comment not found",
		Param:   "parentId",
	}
}

func decorateCommentTree(nodes []*model.CommentNode, usernames map[uuid.UUID]string) []model.CommentTreeResponse {
	responses := make([]model.CommentTreeResponse, 0, len(nodes))

	for _, node := range nodes {
		responses = append(responses, model.CommentTreeResponse{
			Id:             node.Comment.Id,
			PostId:         node.Comment.PostId,
			AuthorId:       node.Comment.AuthorId,
			Username:       usernames[node.Comment.AuthorId],
			ParentId:       node.Comment.ParentId,
			Content:        node.Comment.Content,
			CreateDatetime: node.Comment.CreateDatetime,
			Replies:        decorateCommentTree(node.Replies, usernames),
		})
	}

	return responses
}
