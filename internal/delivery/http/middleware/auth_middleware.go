package middleware

import (
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/ferdian3456/devblog/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	Log         *zap.Logger
	Config      *koanf.Koanf
	UserUsecase *usecase.UserUsecase
}

func NewAuthMiddleware(zap *zap.Logger, koanf *koanf.Koanf, userUsecase *usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		Log:         zap,
		Config:      koanf,
		UserUsecase: userUsecase,
	}
}

func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		log := GetLoggerFromContext(ctx, middleware.Log)

		claims, err := middleware.UserUsecase.VerifyAccessToken(ctx.UserContext(), ctx.Get(fiber.HeaderAuthorization))
		if err != nil {
			return util.SendUsecaseError(ctx, log, err)
		}

		ctx.Locals("userId", claims.UserId)
		ctx.Locals("username", claims.Username)

		log.Debug("request authenticated", zap.String("userId", claims.UserId.String()))

		return ctx.Next()
	}
}
