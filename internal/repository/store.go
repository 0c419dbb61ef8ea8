package repository

import (
	"context"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CommentStore persists comments as a flat list per post.
type CommentStore interface {
	InsertComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	ListCommentsByPost(ctx context.Context, postId uuid.UUID) ([]model.Comment, error)
	GetCommentById(ctx context.Context, commentId uuid.UUID) (model.Comment, error)
	DeleteCommentById(ctx context.Context, commentId uuid.UUID) error
	WithinTx(ctx context.Context, fn func(store CommentStore) error) error
}

// LikeStore persists the (post, user) like relation.
type LikeStore interface {
	InsertLike(ctx context.Context, like model.PostLike) error
	DeleteLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error)
	CheckLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postId uuid.UUID) (int64, error)
	WithinTx(ctx context.Context, fn func(store LikeStore) error) error
}

// PostLookup resolves the author of a post.
type PostLookup interface {
	GetPostAuthor(ctx context.Context, postId uuid.UUID) (uuid.UUID, error)
}

// UsernameResolver maps user ids to usernames. Unknown ids are left out of the result.
type UsernameResolver interface {
	ResolveUsernames(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]string, error)
}
