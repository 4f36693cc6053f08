package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"task-manager/internal/api/handlers"
	"task-manager/internal/middleware"
	taskws "task-manager/internal/websocket"
)

// Services are the collaborators the HTTP layer calls into.
type Services struct {
	Auth   handlers.AuthService
	Tasks  handlers.TaskService
	Tokens middleware.TokenVerifier
	// Hub enables /ws/tasks when set.
	Hub *taskws.Hub
}

type Options struct {
	Verbose     bool
	CORSOrigins string
	// RateLimitMax of zero disables the limiter.
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewApp builds the fiber app with middleware, routes and error handling.
func NewApp(svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(opts.Verbose),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if opts.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: opts.RateLimitWindow,
		}))
	}

	RegisterRoutes(app, svc)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Can't find %s on this server!", c.OriginalURL()))
	})
	return app
}

func RegisterRoutes(app *fiber.App, svc Services) {
	validate := handlers.NewValidator()
	requireAuth := middleware.RequireAuth(svc.Tokens)

	// Auth
	authHandler := handlers.NewAuthHandler(svc.Auth, validate)
	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	// Task; auth is per route so unknown paths still reach the 404 handler.
	// The fixed paths come before /:id.
	taskHandler := handlers.NewTaskHandler(svc.Tasks, validate)
	taskRoutes := app.Group("/tasks")
	taskRoutes.Post("/", requireAuth, taskHandler.Create)
	taskRoutes.Get("/", requireAuth, taskHandler.List)
	taskRoutes.Get("/search", requireAuth, taskHandler.Search)
	taskRoutes.Get("/filter", requireAuth, taskHandler.Filter)
	taskRoutes.Get("/:id", requireAuth, taskHandler.Get)
	taskRoutes.Put("/:id", requireAuth, taskHandler.Update)
	taskRoutes.Delete("/:id", requireAuth, taskHandler.Delete)

	// Realtime task events
	if svc.Hub != nil {
		app.Get("/ws/tasks", requireAuth, handlers.TaskEvents(svc.Hub))
	}
}
