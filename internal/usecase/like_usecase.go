package usecase

import (
	"context"
	"time"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LikeUsecase struct {
	LikeRepository repository.LikeStore
	PostRepository repository.PostLookup
	Log            *zap.Logger
}

func NewLikeUsecase(likeRepository repository.LikeStore, postRepository repository.PostLookup, zap *zap.Logger) *LikeUsecase {
	return &LikeUsecase{
		LikeRepository: likeRepository,
		PostRepository: postRepository,
		Log:            zap,
	}
}

// ToggleLike flips the caller's like on a post and returns the recounted total.
func (usecase *LikeUsecase) ToggleLike(ctx context.Context, userId uuid.UUID, postId uuid.UUID) (model.LikeToggleResponse, error) {
	response := model.LikeToggleResponse{}

	_, err := usecase.PostRepository.GetPostAuthor(ctx, postId)
	if err != nil {
		return response, storageError("get post author", err)
	}

	err = usecase.LikeRepository.WithinTx(ctx, func(store repository.LikeStore) error {
		removed, err := store.DeleteLike(ctx, postId, userId)
		if err != nil {
			return err
		}

		if !removed {
			err = store.InsertLike(ctx, model.PostLike{
				PostId:         postId,
				UserId:         userId,
				CreateDatetime: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
		}

		count, err := store.CountLikes(ctx, postId)
		if err != nil {
			return err
		}

		response.Liked = !removed
		response.Count = count

		return nil
	})
	if err != nil {
		return model.LikeToggleResponse{}, storageError("toggle like", err)
	}

	observability.WithContext(ctx, usecase.Log).Debug("like toggled",
		zap.String("postId", postId.String()),
		zap.Bool("liked", response.Liked),
		zap.Int64("count", response.Count),
	)

	return response, nil
}

func (usecase *LikeUsecase) GetLikeStatus(ctx context.Context, userId uuid.UUID, postId uuid.UUID) (model.LikeStatusResponse, error) {
	response := model.LikeStatusResponse{}

	_, err := usecase.PostRepository.GetPostAuthor(ctx, postId)
	if err != nil {
		return response, storageError("get post author", err)
	}

	hasLiked, err := usecase.LikeRepository.CheckLike(ctx, postId, userId)
	if err != nil {
		return response, storageError("check like", err)
	}

	count, err := usecase.LikeRepository.CountLikes(ctx, postId)
	if err != nil {
		return response, storageError("count likes", err)
	}

	response.HasLiked = hasLiked
	response.Count = count

	return response, nil
}
