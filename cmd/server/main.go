package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/database"
	"github.com/localnerve/socialnetwork/internal/handlers"
	"github.com/localnerve/socialnetwork/internal/middleware"
	"github.com/localnerve/socialnetwork/internal/utils"

	_ "github.com/localnerve/socialnetwork/docs/api" // Swagger docs
)

// @title Social Network API
// @version 1.0.0
// @description Profiles, friendships, chats, messages, posts and comments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/socialnetwork
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	fiberlog.SetLevel(logLevel(cfg.LogLevel))

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handlers.ErrorHandler(cfg.AppName),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("socialnetwork")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Base: handlers.Base{DB: db, AppName: cfg.AppName}, Config: cfg}
	app.Get("/health", health.Health)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	routes := &handlers.Routes{
		DB:                 db,
		AppName:            cfg.AppName,
		ConcurrentBagFetch: cfg.BagFetchConcurrent,
		User:               middleware.AuthUser(cfg, db),
		Admin:              middleware.AuthAdmin(cfg, db),
	}
	routes.Register(api)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, "[404] Resource Not Found", fiber.StatusNotFound, "notfound")
	})

	// The Authorizer client is created on the first authenticated request
	log.Printf("Authorizer %s will be initialized on first authenticated request", cfg.AuthzURL)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

func logLevel(level string) fiberlog.Level {
	switch level {
	case "trace":
		return fiberlog.LevelTrace
	case "debug":
		return fiberlog.LevelDebug
	case "warn":
		return fiberlog.LevelWarn
	case "error":
		return fiberlog.LevelError
	}
	return fiberlog.LevelInfo
}
