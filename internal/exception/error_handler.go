package exception

import (
	"errors"
	"fmt"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func internalServerError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
			"message": constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
		},
	})
}

func Recovery(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var errMsg string
			switch v := r.(type) {
			case error:
				errMsg = v.Error()
			case string:
				errMsg = v
			default:
				errMsg = fmt.Sprintf("%v", v)
			}

			log.Error("panic occurred and recovered",
				zap.String("error", errMsg),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)

			err = internalServerError(c)
		}()

		return c.Next()
	}
}

// ErrorHandler answers errors that escape the handlers, such as unknown routes,
// in the same envelope the controllers use.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				code = constant.ERR_NOT_FOUND_ERROR
			case fiber.StatusMethodNotAllowed:
				code = constant.ERR_VALIDATION_CODE
			}

			if fiberErr.Code < fiber.StatusInternalServerError {
				return c.Status(fiberErr.Code).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    code,
						"message": fiberErr.Message,
					},
				})
			}
		}

		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))

		return internalServerError(c)
	}
}
