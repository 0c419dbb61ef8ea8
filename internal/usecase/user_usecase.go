package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

type UserUsecase struct {
	UserRepository *repository.UserRepository
	DB             *pgxpool.Pool
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewUserUsecase(userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *UserUsecase {
	return &UserUsecase{
		UserRepository: userRepository,
		DB:             db,
		Log:            zap,
		Config:         koanf,
	}
}

func validateUsername(username string) error {
	if username == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is required to not be empty",
			Param:   "username",
		}
	} else if len(username) < 4 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at least 4 characters",
			Param:   "username",
		}
	} else if len(username) > 22 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at most 22 characters",
			Param:   "username",
		}
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	} else if len(password) < 5 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at least 5 characters",
			Param:   "password",
		}
	} else if len(password) > 20 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at most 20 characters",
			Param:   "password",
		}
	}

	return nil
}

func (usecase *UserUsecase) Register(ctx context.Context, payload model.UserRegisterRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	err := validateUsername(payload.Username)
	if err != nil {
		return token, err
	}

	if !usernamePattern.MatchString(payload.Username) {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username may only contain lowercase letters, digits and underscores",
			Param:   "username",
		}
	}

	if payload.Email == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is required to not be empty",
			Param:   "email",
		}
	} else if len(payload.Email) > 80 {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email must be at most 80 characters",
			Param:   "email",
		}
	} else if !strings.Contains(payload.Email, "@") {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is not valid",
			Param:   "email",
		}
	}

	err = validatePassword(payload.Password)
	if err != nil {
		return token, err
	}

	existUsername, existEmail, err := usecase.UserRepository.CheckUsernameOrEmailUnique(ctx, payload.Username, payload.Email)
	if err != nil {
		return token, err
	}

	if existUsername == payload.Username {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is already taken",
			Param:   "username",
		}
	}

	if existEmail == payload.Email {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is already exists",
			Param:   "email",
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return token, err
	}

	now := time.Now().UTC()
	user := model.User{
		Id:             uuid.New(),
		Username:       payload.Username,
		Fullname:       payload.Username,
		Email:          payload.Email,
		Password:       string(hashedPassword),
		Skills:         []byte("[]"),
		Experience:     []byte("[]"),
		Education:      []byte("[]"),
		SocialLinks:    []byte("{}"),
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.UserRepository.Register(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return token, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Username or email is already taken",
				Param:   "username",
			}
		}
		return token, err
	}

	observability.WithContext(ctx, usecase.Log).Info("user registered", zap.String("userId", user.Id.String()))

	return usecase.issueToken(ctx, user.Id, user.Username)
}

func (usecase *UserUsecase) Login(ctx context.Context, payload model.UserLoginRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))

	err := validateUsername(payload.Username)
	if err != nil {
		return token, err
	}

	err = validatePassword(payload.Password)
	if err != nil {
		return token, err
	}

	userId, password, err := usecase.UserRepository.GetUserAuth(ctx, payload.Username)
	if err != nil {
		return token, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(password), []byte(payload.Password))
	if err != nil {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is incorrect",
			Param:   "password",
		}
	}

	return usecase.issueToken(ctx, userId, payload.Username)
}

func (usecase *UserUsecase) issueToken(ctx context.Context, userId uuid.UUID, username string) (model.TokenResponse, error) {
	token, err := util.GenerateAccessToken(userId, username, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return token, err
	}

	err = usecase.UserRepository.SetAccessTokenInCache(ctx, token.AccessToken, userId, util.AccessTokenDuration)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return token, nil
}

// VerifyAccessToken resolves the caller behind an Authorization header. The token
// must be the one most recently issued to that user.
func (usecase *UserUsecase) VerifyAccessToken(ctx context.Context, authHeader string) (*model.Claims, error) {
	tokenString, claims, err := util.ValidateAccessToken(authHeader, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return nil, err
	}

	hashedTokenFromCache, err := usecase.UserRepository.GetAccessTokenInCache(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}

	if util.HashToken(tokenString) != hashedTokenFromCache {
		return nil, &model.AuthenticationError{
			Code:    constant.ERR_UNAUTHORIZED_ERROR,
			Message: "Authorization token is expired",
			Param:   "accessToken",
		}
	}

	return claims, nil
}

func (usecase *UserUsecase) Logout(ctx context.Context, userId uuid.UUID) error {
	return usecase.UserRepository.RemoveAccessToken(ctx, userId)
}

func (usecase *UserUsecase) avatarUrl(objectKey *string) *string {
	if objectKey == nil {
		return nil
	}

	url := fmt.Sprintf("%s%s/%s/%s", usecase.Config.String("MINIO_HTTP"), usecase.Config.String("MINIO_URL"), usecase.Config.String("MINIO_BUCKET_NAME"), *objectKey)
	return &url
}

func (usecase *UserUsecase) GetUserInfo(ctx context.Context, userId uuid.UUID) (model.UserResponse, error) {
	user, err := usecase.UserRepository.GetUserInfo(ctx, userId)
	if err != nil {
		return user, err
	}

	user.AvatarImage = usecase.avatarUrl(user.AvatarImage)

	return user, nil
}

func (usecase *UserUsecase) toProfileResponse(user model.User, includeEmail bool) (model.ProfileResponse, error) {
	skills := []string{}
	err := sonic.Unmarshal(user.Skills, &skills)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	response := model.ProfileResponse{
		Id:             user.Id,
		Username:       user.Username,
		Fullname:       user.Fullname,
		Bio:            user.Bio,
		Skills:         skills,
		Experience:     sonic.NoCopyRawMessage(user.Experience),
		Education:      sonic.NoCopyRawMessage(user.Education),
		SocialLinks:    sonic.NoCopyRawMessage(user.SocialLinks),
		AvatarImage:    usecase.avatarUrl(user.AvatarObjectKey),
		CreateDatetime: user.CreateDatetime,
		UpdateDatetime: user.UpdateDatetime,
	}

	if includeEmail {
		response.Email = user.Email
	}

	return response, nil
}

func (usecase *UserUsecase) GetProfile(ctx context.Context, userId uuid.UUID) (model.ProfileResponse, error) {
	user, err := usecase.UserRepository.GetProfileById(ctx, userId)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	return usecase.toProfileResponse(user, true)
}

func (usecase *UserUsecase) GetPublicProfile(ctx context.Context, username string) (model.ProfileResponse, error) {
	user, err := usecase.UserRepository.GetProfileByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return model.ProfileResponse{}, err
	}

	return usecase.toProfileResponse(user, false)
}

func validateJSONKind(raw sonic.NoCopyRawMessage, param string, open byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] != open || !sonic.Valid([]byte(trimmed)) {
		kind := "an array"
		if open == '{' {
			kind = "an object"
		}
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("%s must be %s", param, kind),
			Param:   param,
		}
	}

	return nil
}

// UpdateProfile replaces only the fields present in the payload.
func (usecase *UserUsecase) UpdateProfile(ctx context.Context, userId uuid.UUID, payload model.ProfileUpdateRequest) (model.ProfileResponse, error) {
	user, err := usecase.UserRepository.GetProfileById(ctx, userId)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	if payload.Fullname != nil {
		fullname := strings.TrimSpace(*payload.Fullname)
		if fullname == "" || len(fullname) > 40 {
			return model.ProfileResponse{}, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Fullname must be between 1 and 40 characters",
				Param:   "fullname",
			}
		}
		user.Fullname = fullname
	}

	if payload.Bio != nil {
		if strings.TrimSpace(*payload.Bio) == "" {
			user.Bio = nil
		} else {
			user.Bio = payload.Bio
		}
	}

	if payload.Skills != nil {
		skills, err := sonic.Marshal(payload.Skills)
		if err != nil {
			return model.ProfileResponse{}, err
		}
		user.Skills = skills
	}

	if payload.Experience != nil {
		err = validateJSONKind(payload.Experience, "experience", '[')
		if err != nil {
			return model.ProfileResponse{}, err
		}
		user.Experience = []byte(payload.Experience)
	}

	if payload.Education != nil {
		err = validateJSONKind(payload.Education, "education", '[')
		if err != nil {
			return model.ProfileResponse{}, err
		}
		user.Education = []byte(payload.Education)
	}

	if payload.SocialLinks != nil {
		err = validateJSONKind(payload.SocialLinks, "socialLinks", '{')
		if err != nil {
			return model.ProfileResponse{}, err
		}
		user.SocialLinks = []byte(payload.SocialLinks)
	}

	user.UpdateDatetime = time.Now().UTC()

	err = usecase.UserRepository.UpdateProfile(ctx, user)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	return usecase.toProfileResponse(user, true)
}

func (usecase *UserUsecase) UpdateAvatar(ctx context.Context, userId uuid.UUID, fileHeader *multipart.FileHeader) error {
	log := observability.WithContext(ctx, usecase.Log)

	imageFile, imageSize, err := util.ProcessAvatar(fileHeader, "avatar")
	if err != nil {
		return err
	}

	bucketName := usecase.Config.String("MINIO_BUCKET_NAME")
	objectKey := fmt.Sprintf("user/avatar/%s.webp", uuid.New())

	err = usecase.UserRepository.UploadUserAvatar(ctx, bucketName, objectKey, imageFile, imageSize)
	if err != nil {
		return err
	}

	commited := false

	tx, err := usecase.DB.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if !commited {
			_ = tx.Rollback(ctx)
			_ = usecase.UserRepository.DeleteUserAvatar(context.Background(), bucketName, objectKey)
		}
	}()

	previous, err := usecase.UserRepository.UpdateAvatarObjectKey(ctx, tx, userId, objectKey, time.Now().UTC())
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}

	commited = true

	if previous != nil {
		err = usecase.UserRepository.DeleteUserAvatar(ctx, bucketName, *previous)
		if err != nil {
			log.Warn("failed to delete previous avatar", zap.String("objectKey", *previous), zap.Error(err))
		}
	}

	return nil
}
