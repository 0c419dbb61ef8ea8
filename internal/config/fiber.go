package config

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/exception"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func NewFiber(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               false,
		AppName:               "devblog",
		BodyLimit:             constant.MAX_FILE_SIZE + 1024*1024,
		ReadBufferSize:        4096,
		WriteBufferSize:       4096,
		Concurrency:           256 * 1024,
		IdleTimeout:           30 * time.Second,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		DisableKeepalive:      false,
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          exception.ErrorHandler(log),
	})

	return app
}
