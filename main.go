package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"teralib-backend/controllers"
	"teralib-backend/database"
	"teralib-backend/linkcache"
	"teralib-backend/middlewares"
	"teralib-backend/resolver"
	"teralib-backend/routes"
	"teralib-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// ---- Database
	database.Connect()
	database.AutoMigrate()

	// ---- Resolution service wiring
	proxyTimeout := time.Duration(envInt("PROXY_TIMEOUT_SECONDS", 5)) * time.Second
	controllers.UseResolution(services.NewResolution(
		linkcache.NewStore(database.DB),
		resolver.NewOrchestrator(resolver.NewHTTPAdapter(proxyTimeout)),
		database.ProxyStore{},
	))

	// ---- Limits (configurable via env)
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	app.Use(logger.New())

	// ---- CORS (the desktop shell serves the UI from its own origin)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// ---- Global rate limiter (tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 120)
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("teralib backend listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
