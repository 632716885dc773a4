package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mealms-portal/internal/adapters/gateway"
	"mealms-portal/internal/adapters/http/middleware"
	"mealms-portal/internal/adapters/http/routes"
	"mealms-portal/internal/config"
	"mealms-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "mealms-portal/docs" // Swagger docs
)

// @title Meal MS Manager Portal API
// @version 1.0
// @description Manager web portal for the meal booking system: employee directory administration, bulk roster import and provisioning forecasts.

// @contact.name API Support
// @contact.email support@mealms.lk

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the portal session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Upstream Meal MS API client (the system of record)
	upstream := gateway.NewClient(cfg.Upstream)
	log.Printf("✅ Upstream gateway: %s", cfg.Upstream.BaseURL)

	// Session registry + expiry sweep
	sessionService := services.NewSessionService(upstream, cfg)
	sessionService.StartSweeper()
	defer sessionService.Stop()

	// Morning provisioning digest
	forecastService := services.NewForecastService(upstream)
	if cfg.Digest.Enabled {
		digestService := services.NewDigestService(forecastService, sessionService, cfg.Digest)
		if err := digestService.Start(); err != nil {
			log.Fatalf("❌ Failed to start provisioning digest: %v", err)
		}
		defer digestService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Meal MS Manager Portal v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, upstream, sessionService, forecastService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
