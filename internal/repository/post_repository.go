package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewPostRepository(zap *zap.Logger, db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		Log: zap,
		DB:  db,
	}
}

const postSelectColumns = `
	SELECT p.id, p.author_id, u.username, p.title, p.content, p.create_datetime, p.update_datetime,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	       (SELECT COUNT(*) FROM post_comments pc WHERE pc.post_id = p.id) AS comment_count
	FROM posts p
	INNER JOIN users u ON p.author_id = u.id
`

func (repository *PostRepository) CreatePost(ctx context.Context, post model.Post) error {
	query := "INSERT INTO posts (id, author_id, title, content, create_datetime, update_datetime) VALUES ($1, $2, $3, $4, $5, $6)"

	_, err := repository.DB.Exec(ctx, query, post.Id, post.AuthorId, post.Title, post.Content, post.CreateDatetime, post.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *PostRepository) GetPostAuthor(ctx context.Context, postId uuid.UUID) (uuid.UUID, error) {
	query := "SELECT author_id FROM posts WHERE id = $1"

	var authorId uuid.UUID
	err := repository.DB.QueryRow(ctx, query, postId).Scan(&authorId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Post not found",
				Param:   "postId",
			}
		}
		return uuid.Nil, err
	}

	return authorId, nil
}

func (repository *PostRepository) GetPost(ctx context.Context, postId uuid.UUID) (model.PostResponse, error) {
	query := postSelectColumns + " WHERE p.id = $1"

	var post model.PostResponse
	err := repository.DB.QueryRow(ctx, query, postId).Scan(
		&post.Id, &post.AuthorId, &post.Username, &post.Title, &post.Content,
		&post.CreateDatetime, &post.UpdateDatetime, &post.LikeCount, &post.CommentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post, &model.NotFoundError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Post not found",
				Param:   "postId",
			}
		}
		return post, err
	}

	return post, nil
}

func (repository *PostRepository) GetPosts(ctx context.Context, limit int, cursor *model.PostCursor) ([]model.PostResponse, error) {
	var rows pgx.Rows
	var err error

	if cursor != nil && cursor.Id != uuid.Nil && !cursor.CreateDatetime.IsZero() {
		query := postSelectColumns + `
			WHERE (p.create_datetime < $1 OR (p.create_datetime = $1 AND p.id < $2))
			ORDER BY p.create_datetime DESC, p.id DESC
			LIMIT $3
		`
		rows, err = repository.DB.Query(ctx, query, cursor.CreateDatetime, cursor.Id, limit)
	} else {
		query := postSelectColumns + `
			ORDER BY p.create_datetime DESC, p.id DESC
			LIMIT $1
		`
		rows, err = repository.DB.Query(ctx, query, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.PostResponse{}

	for rows.Next() {
		var post model.PostResponse
		err := rows.Scan(
			&post.Id, &post.AuthorId, &post.Username, &post.Title, &post.Content,
			&post.CreateDatetime, &post.UpdateDatetime, &post.LikeCount, &post.CommentCount,
		)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (repository *PostRepository) UpdatePost(ctx context.Context, postId uuid.UUID, title string, content string, updateDatetime time.Time) error {
	query := "UPDATE posts SET title = $1, content = $2, update_datetime = $3 WHERE id = $4"

	tag, err := repository.DB.Exec(ctx, query, title, content, updateDatetime, postId)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Post not found",
			Param:   "postId",
		}
	}

	return nil
}

// DeletePost removes the post. Its comments and likes go with it through ON DELETE CASCADE.
func (repository *PostRepository) DeletePost(ctx context.Context, postId uuid.UUID) error {
	query := "DELETE FROM posts WHERE id = $1"

	tag, err := repository.DB.Exec(ctx, query, postId)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Post not found",
			Param:   "postId",
		}
	}

	return nil
}
