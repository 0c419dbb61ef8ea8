package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type UserRepository struct {
	Log      *zap.Logger
	DB       *pgxpool.Pool
	DBCache  *redis.Client
	DBObject *minio.Client
}

func NewUserRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client, minio *minio.Client) *UserRepository {
	return &UserRepository{
		Log:      zap,
		DB:       db,
		DBCache:  dbCache,
		DBObject: minio,
	}
}

func accessTokenKey(userId uuid.UUID) string {
	return fmt.Sprintf("auth:accessToken:%s", userId)
}

func usernameKey(userId uuid.UUID) string {
	return fmt.Sprintf("user:username:%s", userId)
}

func userNotFound() *model.NotFoundError {
	return &model.NotFoundError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "User not found",
		Param:   "userId",
	}
}

// Postgresql
func (repository *UserRepository) Register(ctx context.Context, user model.User) error {
	query := `INSERT INTO users (id, username, fullname, email, password, bio, skills, experience, education, social_links, avatar_object_key, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := repository.DB.Exec(ctx, query, user.Id, user.Username, user.Fullname, user.Email, user.Password, user.Bio,
		user.Skills, user.Experience, user.Education, user.SocialLinks, user.AvatarObjectKey, user.CreateDatetime, user.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) CheckUsernameOrEmailUnique(ctx context.Context, username string, email string) (string, string, error) {
	query := "SELECT username, email FROM users WHERE username = $1 OR email = $2 LIMIT 1"

	var existUsername string
	var existEmail string
	err := repository.DB.QueryRow(ctx, query, username, email).Scan(&existUsername, &existEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", nil
		}
		return existUsername, existEmail, err
	}

	return existUsername, existEmail, nil
}

func (repository *UserRepository) GetUserAuth(ctx context.Context, username string) (uuid.UUID, string, error) {
	query := "SELECT id, password FROM users WHERE username = $1 LIMIT 1"

	var id uuid.UUID
	var passwordHash string

	err := repository.DB.QueryRow(ctx, query, username).Scan(&id, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return id, passwordHash, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Username is not found",
				Param:   "username",
			}
		}
		return id, passwordHash, err
	}

	return id, passwordHash, nil
}

func (repository *UserRepository) GetUserInfo(ctx context.Context, id uuid.UUID) (model.UserResponse, error) {
	query := "SELECT id, username, fullname, email, avatar_object_key, create_datetime, update_datetime FROM users WHERE id = $1"

	user := model.UserResponse{}
	err := repository.DB.QueryRow(ctx, query, id).Scan(&user.Id, &user.Username, &user.Fullname, &user.Email, &user.AvatarImage, &user.CreateDatetime, &user.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, userNotFound()
		}
		return user, err
	}

	return user, nil
}

func (repository *UserRepository) GetUserContact(ctx context.Context, id uuid.UUID) (string, string, error) {
	query := "SELECT username, email FROM users WHERE id = $1"

	var username string
	var email string
	err := repository.DB.QueryRow(ctx, query, id).Scan(&username, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", userNotFound()
		}
		return "", "", err
	}

	return username, email, nil
}

func (repository *UserRepository) getProfile(ctx context.Context, where string, arg any) (model.User, error) {
	query := `SELECT id, username, fullname, email, bio, skills, experience, education, social_links, avatar_object_key, create_datetime, update_datetime
		FROM users WHERE ` + where

	var user model.User
	err := repository.DB.QueryRow(ctx, query, arg).Scan(&user.Id, &user.Username, &user.Fullname, &user.Email, &user.Bio,
		&user.Skills, &user.Experience, &user.Education, &user.SocialLinks, &user.AvatarObjectKey, &user.CreateDatetime, &user.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, userNotFound()
		}
		return user, err
	}

	return user, nil
}

func (repository *UserRepository) GetProfileById(ctx context.Context, id uuid.UUID) (model.User, error) {
	return repository.getProfile(ctx, "id = $1", id)
}

func (repository *UserRepository) GetProfileByUsername(ctx context.Context, username string) (model.User, error) {
	return repository.getProfile(ctx, "username = $1", username)
}

func (repository *UserRepository) UpdateProfile(ctx context.Context, user model.User) error {
	query := `UPDATE users SET fullname = $1, bio = $2, skills = $3, experience = $4, education = $5, social_links = $6, update_datetime = $7
		WHERE id = $8`

	tag, err := repository.DB.Exec(ctx, query, user.Fullname, user.Bio, user.Skills, user.Experience, user.Education, user.SocialLinks, user.UpdateDatetime, user.Id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return userNotFound()
	}

	return nil
}

func (repository *UserRepository) UpdateAvatarObjectKey(ctx context.Context, tx pgx.Tx, userId uuid.UUID, objectKey string, updateDatetime time.Time) (*string, error) {
	var previous *string
	err := tx.QueryRow(ctx, "SELECT avatar_object_key FROM users WHERE id = $1 FOR UPDATE", userId).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userNotFound()
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, "UPDATE users SET avatar_object_key = $1, update_datetime = $2 WHERE id = $3", objectKey, updateDatetime, userId)
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// ResolveUsernames reads through the redis cache and falls back to one query for the misses.
func (repository *UserRepository) ResolveUsernames(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]string, error) {
	usernames := make(map[uuid.UUID]string, len(userIds))
	if len(userIds) == 0 {
		return usernames, nil
	}

	keys := make([]string, len(userIds))
	for i, userId := range userIds {
		keys[i] = usernameKey(userId)
	}

	missing := []uuid.UUID{}

	cached, err := repository.DBCache.MGet(ctx, keys...).Result()
	if err != nil {
		repository.Log.Warn("failed to read username cache", zap.Error(err))
		missing = append(missing, userIds...)
	} else {
		for i, value := range cached {
			username, ok := value.(string)
			if ok {
				usernames[userIds[i]] = username
			} else {
				missing = append(missing, userIds[i])
			}
		}
	}

	if len(missing) == 0 {
		return usernames, nil
	}

	rows, err := repository.DB.Query(ctx, "SELECT id, username FROM users WHERE id = ANY($1)", missing)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fetched := make(map[uuid.UUID]string, len(missing))
	for rows.Next() {
		var id uuid.UUID
		var username string
		err := rows.Scan(&id, &username)
		if err != nil {
			return nil, err
		}

		usernames[id] = username
		fetched[id] = username
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	if len(fetched) > 0 {
		pipe := repository.DBCache.Pipeline()
		for id, username := range fetched {
			pipe.Set(ctx, usernameKey(id), username, constant.USERNAME_CACHE_TTL_MINUTES*time.Minute)
		}

		_, err = pipe.Exec(ctx)
		if err != nil {
			repository.Log.Warn("failed to write username cache", zap.Error(err))
		}
	}

	return usernames, nil
}

// Redis - Cache
func (repository *UserRepository) SetAccessTokenInCache(ctx context.Context, accessToken string, userId uuid.UUID, ttl time.Duration) error {
	err := repository.DBCache.Set(ctx, accessTokenKey(userId), util.HashToken(accessToken), ttl).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) GetAccessTokenInCache(ctx context.Context, userId uuid.UUID) (string, error) {
	hashedToken, err := repository.DBCache.Get(ctx, accessTokenKey(userId)).Result()
	if errors.Is(err, redis.Nil) {
		return "", &model.AuthenticationError{
			Code:    constant.ERR_UNAUTHORIZED_ERROR,
			Message: "Authorization token not found or expired",
			Param:   "accessToken",
		}
	} else if err != nil {
		return "", err
	}

	return hashedToken, nil
}

func (repository *UserRepository) RemoveAccessToken(ctx context.Context, userId uuid.UUID) error {
	err := repository.DBCache.Del(ctx, accessTokenKey(userId)).Err()
	if err != nil {
		return err
	}

	return nil
}

// MinIO
func (repository *UserRepository) UploadUserAvatar(ctx context.Context, bucketName string, objectKey string, imageFile *bytes.Reader, imageSize int64) error {
	_, err := repository.DBObject.PutObject(ctx, bucketName, objectKey, imageFile, imageSize,
		minio.PutObjectOptions{
			ContentType:  "image/webp",
			CacheControl: "public, max-age=31536000, immutable",
		})
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) DeleteUserAvatar(ctx context.Context, bucketName string, objectKey string) error {
	err := repository.DBObject.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return err
	}

	return nil
}
