package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const maxTitleLength = 200

type PostUsecase struct {
	PostRepository *repository.PostRepository
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewPostUsecase(postRepository *repository.PostRepository, zap *zap.Logger, koanf *koanf.Koanf) *PostUsecase {
	return &PostUsecase{
		PostRepository: postRepository,
		Log:            zap,
		Config:         koanf,
	}
}

func validatePost(title string, content string) error {
	if title == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title is required to not be empty",
			Param:   "title",
		}
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Title must be at most %d characters", maxTitleLength),
			Param:   "title",
		}
	}

	if strings.TrimSpace(content) == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Content is required to not be empty",
			Param:   "content",
		}
	}

	return nil
}

func (usecase *PostUsecase) CreatePost(ctx context.Context, authorId uuid.UUID, payload model.PostCreateRequest) (model.PostResponse, error) {
	title := strings.TrimSpace(payload.Title)

	err := validatePost(title, payload.Content)
	if err != nil {
		return model.PostResponse{}, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	post := model.Post{
		Id:             uuid.New(),
		AuthorId:       authorId,
		Title:          title,
		Content:        payload.Content,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.PostRepository.CreatePost(ctx, post)
	if err != nil {
		return model.PostResponse{}, err
	}

	observability.WithContext(ctx, usecase.Log).Info("post created", zap.String("postId", post.Id.String()))

	return usecase.GetPost(ctx, post.Id)
}

func (usecase *PostUsecase) GetPost(ctx context.Context, postId uuid.UUID) (model.PostResponse, error) {
	post, err := usecase.PostRepository.GetPost(ctx, postId)
	if err != nil {
		return post, err
	}

	post.ContentHtml = util.RenderMarkdown(post.Content)

	return post, nil
}

func (usecase *PostUsecase) GetPosts(ctx context.Context, limit int, cursor string) (model.PostListResponse, error) {
	response := model.PostListResponse{}

	if limit < 1 {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Limit must be greater than 0",
			Param:   "limit",
		}
	} else if limit > constant.MAX_LIMIT {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Limit is exceeded max limit: %d", constant.MAX_LIMIT),
			Param:   "limit",
		}
	}

	var postCursor *model.PostCursor
	if cursor != "" {
		invalidCursor := &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Cursor is not valid",
			Param:   "cursor",
		}

		b, err := base64.RawURLEncoding.DecodeString(cursor)
		if err != nil {
			return response, invalidCursor
		}

		postCursor = &model.PostCursor{}
		err = sonic.Unmarshal(b, postCursor)
		if err != nil {
			return response, invalidCursor
		}
	}

	// one extra row tells whether another page exists
	posts, err := usecase.PostRepository.GetPosts(ctx, limit+1, postCursor)
	if err != nil {
		return response, err
	}

	for i := range posts {
		posts[i].ContentHtml = util.RenderMarkdown(posts[i].Content)
	}

	response.Data = []model.PostResponse{}

	if len(posts) > limit {
		response.Data = posts[:limit]

		last := posts[limit-1]
		b, err := sonic.Marshal(model.PostCursor{
			Id:             last.Id,
			CreateDatetime: last.CreateDatetime,
		})
		if err != nil {
			return response, err
		}

		response.Page.NextCursor = base64.RawURLEncoding.EncodeToString(b)
	} else if len(posts) > 0 {
		response.Data = posts
	}

	return response, nil
}

func (usecase *PostUsecase) checkAuthor(ctx context.Context, userId uuid.UUID, postId uuid.UUID) error {
	authorId, err := usecase.PostRepository.GetPostAuthor(ctx, postId)
	if err != nil {
		return err
	}

	if authorId != userId {
		return &model.AuthorizationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not the author of this post",
			Param:   "postId",
		}
	}

	return nil
}

func (usecase *PostUsecase) UpdatePost(ctx context.Context, userId uuid.UUID, postId uuid.UUID, payload model.PostUpdateRequest) (model.PostResponse, error) {
	title := strings.TrimSpace(payload.Title)

	err := validatePost(title, payload.Content)
	if err != nil {
		return model.PostResponse{}, err
	}

	err = usecase.checkAuthor(ctx, userId, postId)
	if err != nil {
		return model.PostResponse{}, err
	}

	err = usecase.PostRepository.UpdatePost(ctx, postId, title, payload.Content, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return model.PostResponse{}, err
	}

	return usecase.GetPost(ctx, postId)
}

func (usecase *PostUsecase) DeletePost(ctx context.Context, userId uuid.UUID, postId uuid.UUID) error {
	err := usecase.checkAuthor(ctx, userId, postId)
	if err != nil {
		return err
	}

	err = usecase.PostRepository.DeletePost(ctx, postId)
	if err != nil {
		return err
	}

	observability.WithContext(ctx, usecase.Log).Info("post deleted", zap.String("postId", postId.String()))

	return nil
}
