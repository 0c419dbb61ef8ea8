package repository

import (
	"context"
	"errors"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type LikeRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
	tx  pgx.Tx
}

func NewLikeRepository(zap *zap.Logger, db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *LikeRepository) conn() DBTX {
	if repository.tx != nil {
		return repository.tx
	}
	return repository.DB
}

func (repository *LikeRepository) WithinTx(ctx context.Context, fn func(store LikeStore) error) error {
	if repository.tx != nil {
		return fn(repository)
	}

	return runInTx(ctx, repository.DB, func(tx pgx.Tx) error {
		return fn(&LikeRepository{
			Log: repository.Log,
			DB:  repository.DB,
			tx:  tx,
		})
	})
}

// InsertLike is idempotent: a concurrent duplicate is absorbed by the primary key.
func (repository *LikeRepository) InsertLike(ctx context.Context, like model.PostLike) error {
	query := "INSERT INTO post_likes (post_id, user_id, create_datetime) VALUES ($1, $2, $3) ON CONFLICT (post_id, user_id) DO NOTHING"

	_, err := repository.conn().Exec(ctx, query, like.PostId, like.UserId, like.CreateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *LikeRepository) DeleteLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error) {
	query := "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2"

	tag, err := repository.conn().Exec(ctx, query, postId, userId)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (repository *LikeRepository) CheckLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error) {
	query := "SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2"

	var exists int
	err := repository.conn().QueryRow(ctx, query, postId, userId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return exists == 1, nil
}

func (repository *LikeRepository) CountLikes(ctx context.Context, postId uuid.UUID) (int64, error) {
	query := "SELECT COUNT(*) FROM post_likes WHERE post_id = $1"

	var count int64
	err := repository.conn().QueryRow(ctx, query, postId).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
