package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CommentRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
	tx  pgx.Tx
}

const foreignKeyViolation = "23503"

func referenceNotFound(constraint string) *model.NotFoundError {
	switch constraint {
	case "post_comments_parent_id_fkey":
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Parent comment not found",
			Param:   "parentId",
		}
	case "post_comments_author_id_fkey":
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "User not found",
			Param:   "userId",
		}
	default:
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Post not found",
			Param:   "postId",
		}
	}
}

func NewCommentRepository(zap *zap.Logger, db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *CommentRepository) conn() DBTX {
	if repository.tx != nil {
		return repository.tx
	}
	return repository.DB
}

func (repository *CommentRepository) WithinTx(ctx context.Context, fn func(store CommentStore) error) error {
	if repository.tx != nil {
		return fn(repository)
	}

	return runInTx(ctx, repository.DB, func(tx pgx.Tx) error {
		return fn(&CommentRepository{
			Log: repository.Log,
			DB:  repository.DB,
			tx:  tx,
		})
	})
}

func (repository *CommentRepository) InsertComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	if strings.TrimSpace(comment.Content) == "" {
		return comment, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Comment content is required to not be empty",
			Param:   "content",
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return comment, err
	}

	comment.Id = id

	// create_datetime is stamped by the database clock
	query := "INSERT INTO post_comments (id, post_id, author_id, parent_id, content, create_datetime) VALUES ($1, $2, $3, $4, $5, clock_timestamp()) RETURNING create_datetime"

	err = repository.conn().QueryRow(ctx, query, comment.Id, comment.PostId, comment.AuthorId, comment.ParentId, comment.Content).Scan(&comment.CreateDatetime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return comment, referenceNotFound(pgErr.ConstraintName)
		}
		return comment, err
	}

	comment.CreateDatetime = comment.CreateDatetime.UTC()

	return comment, nil
}

func (repository *CommentRepository) ListCommentsByPost(ctx context.Context, postId uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, parent_id, content, create_datetime
		FROM post_comments
		WHERE post_id = $1
		ORDER BY create_datetime ASC, id ASC
	`

	rows, err := repository.conn().Query(ctx, query, postId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}

	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(&comment.Id, &comment.PostId, &comment.AuthorId, &comment.ParentId, &comment.Content, &comment.CreateDatetime)
		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (repository *CommentRepository) GetCommentById(ctx context.Context, commentId uuid.UUID) (model.Comment, error) {
	query := "SELECT id, post_id, author_id, parent_id, content, create_datetime FROM post_comments WHERE id = $1"

	var comment model.Comment
	err := repository.conn().QueryRow(ctx, query, commentId).Scan(&comment.Id, &comment.PostId, &comment.AuthorId, &comment.ParentId, &comment.Content, &comment.CreateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Comment not found",
				Param:   "commentId",
			}
		}
		return comment, err
	}

	return comment, nil
}

func (repository *CommentRepository) DeleteCommentById(ctx context.Context, commentId uuid.UUID) error {
	query := "DELETE FROM post_comments WHERE id = $1"

	tag, err := repository.conn().Exec(ctx, query, commentId)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Comment not found",
			Param:   "commentId",
		}
	}

	return nil
}
