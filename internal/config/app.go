package config

import (
	http "github.com/ferdian3456/devblog/internal/delivery/http"
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"
	"github.com/ferdian3456/devblog/internal/delivery/http/route"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/minio/minio-go/v7"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultRateLimitMax     = 100
	defaultAuthRateLimitMax = 5
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
	MinIO   *minio.Client
}

func intOrDefault(config *koanf.Koanf, key string, fallback int) int {
	value := config.Int(key)
	if value <= 0 {
		return fallback
	}

	return value
}

func Server(config *ServerConfig) {
	userRepository := repository.NewUserRepository(config.Log, config.DB, config.DBCache, config.MinIO)
	postRepository := repository.NewPostRepository(config.Log, config.DB)
	commentRepository := repository.NewCommentRepository(config.Log, config.DB)
	likeRepository := repository.NewLikeRepository(config.Log, config.DB)

	userUsecase := usecase.NewUserUsecase(userRepository, config.DB, config.Log, config.Config)
	postUsecase := usecase.NewPostUsecase(postRepository, config.Log, config.Config)
	notificationUsecase := usecase.NewNotificationUsecase(userRepository, postRepository, config.Log, config.Config)
	commentUsecase := usecase.NewCommentUsecase(commentRepository, postRepository, userRepository, notificationUsecase, config.Log)
	likeUsecase := usecase.NewLikeUsecase(likeRepository, postRepository, config.Log)

	userController := http.NewUserController(userUsecase, config.Log, config.Config)
	postController := http.NewPostController(postUsecase, config.Log, config.Config)
	commentController := http.NewCommentController(commentUsecase, config.Log)
	likeController := http.NewLikeController(likeUsecase, config.Log)

	authMiddleware := middleware.NewAuthMiddleware(config.Log, config.Config, userUsecase)

	config.Router.Use(middleware.SetupCORS(config.Config))
	config.Router.Use(middleware.SetupRateLimiter(config.Log, intOrDefault(config.Config, "RATE_LIMIT_MAX", defaultRateLimitMax)))

	routeConfig := route.RouteConfig{
		App:               config.Router,
		AuthMiddleware:    authMiddleware,
		AuthRateLimiter:   middleware.SetupAuthRateLimiter(config.Log, intOrDefault(config.Config, "AUTH_RATE_LIMIT_MAX", defaultAuthRateLimitMax)),
		UserController:    userController,
		PostController:    postController,
		CommentController: commentController,
		LikeController:    likeController,
	}

	routeConfig.SetupRoute()
}
