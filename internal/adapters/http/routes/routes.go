package routes

import (
	"mealms-portal/internal/adapters/http/handlers"
	"mealms-portal/internal/adapters/http/middleware"
	"mealms-portal/internal/config"
	"mealms-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application. The gateway, session and
// forecast services are built in main so the digest job can share them.
func Setup(app *fiber.App, cfg *config.Config, gateway services.Gateway, sessions *services.SessionService, forecastService *services.ForecastService) {
	// Initialize services
	directoryService := services.NewDirectoryService(gateway)
	importService := services.NewImportService(gateway)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(sessions)
	employeeHandler := handlers.NewEmployeeHandler(directoryService, importService)
	dashboardHandler := handlers.NewDashboardHandler(forecastService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", middleware.SessionMiddleware(cfg, sessions), authHandler.Logout)
	authRoutes.Get("/me", middleware.SessionMiddleware(cfg, sessions), authHandler.Me)

	// Employee directory routes (manager session required)
	employeeRoutes := apiV1.Group("/employees")
	employeeRoutes.Use(middleware.SessionMiddleware(cfg, sessions))
	employeeRoutes.Get("/", employeeHandler.List)
	employeeRoutes.Get("/search", employeeHandler.Search)
	employeeRoutes.Post("/", employeeHandler.Create)
	employeeRoutes.Put("/:id", employeeHandler.Update)
	employeeRoutes.Delete("/:id", employeeHandler.Delete)
	employeeRoutes.Post("/import", middleware.ImportRateLimiter(), employeeHandler.Import)

	// Dashboard routes (manager session required)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.SessionMiddleware(cfg, sessions))
	dashboardRoutes.Get("/overview", dashboardHandler.Overview)
}
