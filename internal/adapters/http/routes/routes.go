package routes

import (
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/cache"
	"mfi-backoffice/internal/adapters/http/handlers"
	"mfi-backoffice/internal/adapters/http/middleware"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/adapters/storage"
	"mfi-backoffice/internal/config"
	"mfi-backoffice/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	idempotencyLockTTL = 60 * time.Second
	catalogMaxAge      = time.Minute
)

// Deps are the collaborators the routes are built from. Redis, LimiterStore
// and Notifier may be nil. Documents is shared with the background jobs.
type Deps struct {
	DB           *gorm.DB
	Config       *config.Config
	Storage      storage.Storage
	Documents    *services.DocumentService
	Redis        *redis.Client
	LimiterStore fiber.Storage
	Notifier     services.DecisionNotifier
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	db, cfg := deps.DB, deps.Config

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	productService := services.NewProductService(productRepo)
	applicationService := services.NewApplicationService(applicationRepo, historyRepo, productRepo, deps.Notifier)
	reportService := services.NewReportService(applicationRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, deps.Redis)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	reportHandler := handlers.NewReportHandler(reportService)
	documentHandler := handlers.NewDocumentHandler(deps.Documents)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored documents
	if deps.Storage.Name() == "local" && strings.HasPrefix(cfg.Upload.BaseURL, "/") {
		app.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)
	}

	idempotency := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Redis != nil {
		store := cache.NewIdempotencyStore(deps.Redis, idempotencyLockTTL, cfg.Redis.IdempotencyTTL)
		idempotency = middleware.Idempotency(store)
	}

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)

	setupAuthRoutes(apiV1, authHandler, auth, deps.LimiterStore)
	setupUserRoutes(apiV1, userHandler, auth)
	setupProductRoutes(apiV1, productHandler, auth, middleware.OptionalAuth(cfg))
	setupApplicationRoutes(apiV1, applicationHandler, auth, middleware.OptionalAuth(cfg), idempotency)
	setupReportRoutes(apiV1, reportHandler, auth)
	setupDocumentRoutes(apiV1, documentHandler, auth)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler, limiterStore fiber.Storage) {
	authRoutes := router.Group("/auth")

	authLimiter := middleware.AuthRateLimiter(limiterStore)
	authRoutes.Post("/login", authLimiter, handler.Login)
	authRoutes.Post("/refresh", authLimiter, handler.RefreshToken)
	authRoutes.Post("/logout", handler.Logout)

	authRoutes.Get("/me", auth, middleware.NoCacheHeaders(), handler.Me)
	authRoutes.Post("/logout-all", auth, handler.LogoutAll)
}

// setupUserRoutes configures staff account routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, auth fiber.Handler) {
	users := router.Group("/users", auth)

	users.Get("/", middleware.ManagerOrAdmin(), handler.List)
	users.Post("/", middleware.AdminOnly(), handler.Create)
	users.Post("/:id/reset-password", middleware.ManagerOrAdmin(), handler.ResetPassword)
}

// setupProductRoutes configures loan product routes. Applicants read the
// active catalog without a session; changes need staff.
func setupProductRoutes(router fiber.Router, handler *handlers.ProductHandler, auth, optionalAuth fiber.Handler) {
	products := router.Group("/products")

	products.Get("/", optionalAuth, middleware.CacheControl(catalogMaxAge), handler.List)
	products.Post("/", auth, handler.Create)
	products.Get("/:id", optionalAuth, middleware.CacheControl(catalogMaxAge), handler.GetByID)
	products.Put("/:id", auth, handler.Update)
	products.Delete("/:id", auth, handler.Delete)
}

// setupApplicationRoutes configures loan application routes. Submission is
// open to applicants; everything else needs a staff session.
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler, auth, optionalAuth, idempotency fiber.Handler) {
	applications := router.Group("/applications")

	applications.Post("/", optionalAuth, idempotency, handler.Submit)
	applications.Get("/", auth, handler.List)
	applications.Get("/:id", auth, handler.GetByID)
	applications.Put("/:id", auth, handler.Update)
	applications.Delete("/:id", auth, handler.Delete)
	applications.Get("/:id/history", auth, handler.History)
	applications.Get("/:id/payment-summary", auth, handler.PaymentSummary)

	router.Post("/calculator", auth, handler.Calculate)
}

// setupReportRoutes configures report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler, auth fiber.Handler) {
	router.Get("/reports/applications", auth, middleware.NoCacheHeaders(), handler.Applications)
	router.Get("/reports/financial", auth, middleware.NoCacheHeaders(), handler.Financial)
	router.Get("/stats", auth, middleware.NoCacheHeaders(), handler.Stats)
}

// setupDocumentRoutes configures document upload routes
func setupDocumentRoutes(router fiber.Router, handler *handlers.DocumentHandler, auth fiber.Handler) {
	uploads := router.Group("/upload", auth)

	uploads.Post("/", handler.Upload)
	uploads.Get("/", handler.List)
	uploads.Get("/:id", handler.GetByID)
	uploads.Put("/:id", handler.Update)
	uploads.Delete("/:id", handler.Delete)
}
