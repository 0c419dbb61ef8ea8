package route

import (
	"github.com/ferdian3456/devblog/internal/delivery/http"
	"github.com/ferdian3456/devblog/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	AuthMiddleware    *middleware.AuthMiddleware
	AuthRateLimiter   fiber.Handler
	UserController    *http.UserController
	PostController    *http.PostController
	CommentController *http.CommentController
	LikeController    *http.LikeController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	if c.AuthRateLimiter != nil {
		authGroup.Use(c.AuthRateLimiter)
	}
	authGroup.Post("/register", c.UserController.Register)
	authGroup.Post("/login", c.UserController.Login)

	protected := c.AuthMiddleware.ProtectedRoute()

	userGroup := api.Group("/users")
	userGroup.Get("/me", protected, c.UserController.GetUserInfo)
	userGroup.Post("/logout", protected, c.UserController.Logout)
	userGroup.Get("/profile", protected, c.UserController.GetProfile)
	userGroup.Put("/profile", protected, c.UserController.UpdateProfile)
	userGroup.Put("/avatar", protected, c.UserController.UpdateAvatar)
	userGroup.Get("/:username", c.UserController.GetPublicProfile)

	postGroup := api.Group("/posts")
	postGroup.Get("/", c.PostController.GetPosts)
	postGroup.Post("/", protected, c.PostController.CreatePost)
	postGroup.Get("/:postId", c.PostController.GetPost)
	postGroup.Put("/:postId", protected, c.PostController.UpdatePost)
	postGroup.Delete("/:postId", protected, c.PostController.DeletePost)

	postGroup.Get("/:postId/comments", c.CommentController.GetComments)
	postGroup.Post("/:postId/comments", protected, c.CommentController.CreateComment)
	postGroup.Post("/:postId/like", protected, c.LikeController.ToggleLike)
	postGroup.Get("/:postId/likes", protected, c.LikeController.GetLikeStatus)

	commentGroup := api.Group("/comments", protected)
	commentGroup.Delete("/:commentId", c.CommentController.DeleteComment)
}
