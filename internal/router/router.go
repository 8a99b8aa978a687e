package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/studyprep-go-api/internal/config"
	"github.com/noah-isme/studyprep-go-api/internal/handler"
	"github.com/noah-isme/studyprep-go-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler      *handler.UserHandler
	PlanHandler      *handler.PlanHandler
	QuestionHandler  *handler.QuestionHandler
	PracticeHandler  *handler.PracticeHandler
	CommunityHandler *handler.CommunityHandler
	ResourceHandler  *handler.ResourceHandler
	UploadHandler    *handler.UploadHandler
	AdminHandler     *handler.AdminHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublic(api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute)))
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware))
	}

	if deps.PlanHandler != nil {
		deps.PlanHandler.Register(api.Group("/plans", jwtMiddleware))
	}

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware))
	}

	if deps.PracticeHandler != nil {
		deps.PracticeHandler.Register(api.Group("/practice", jwtMiddleware))
	}

	if deps.CommunityHandler != nil {
		deps.CommunityHandler.Register(api.Group("/community", jwtMiddleware))
	}

	if deps.ResourceHandler != nil {
		deps.ResourceHandler.Register(api.Group("/resources", jwtMiddleware))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/uploads", jwtMiddleware, middleware.RateLimit("uploads", 30, time.Minute)))
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin")
		deps.AdminHandler.RegisterPublic(admin.Group("", middleware.RateLimit("admin_auth", 10, time.Minute)))
		deps.AdminHandler.Register(admin.Group("", jwtMiddleware, middleware.RequireRole("admin")))
	}
}
