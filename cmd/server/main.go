package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mfi-backoffice/internal/adapters/cache"
	"mfi-backoffice/internal/adapters/http/middleware"
	"mfi-backoffice/internal/adapters/http/routes"
	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/adapters/storage"
	"mfi-backoffice/internal/config"
	"mfi-backoffice/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	_ "mfi-backoffice/docs" // Swagger docs
)

// Multipart overhead on top of the per-file limit, for forms with several files.
const uploadBodyFiles = 10

// @title MFI Back Office API
// @version 1.0
// @description Loan product catalog, loan applications, reports and document management for a microfinance institution.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg.Seed).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Optional Redis for rate limiting and idempotency keys
	var rdb *redis.Client
	var limiterStore fiber.Storage
	if cfg.Redis.Enabled() {
		rdb, err = cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, continuing without it: %v", err)
		} else {
			defer rdb.Close()
			limiterStore = cache.NewLimiterStorage(rdb, "limiter:")
			log.Println("✅ Redis connected")
		}
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize document storage: %v", err)
	}
	log.Printf("✅ Document storage ready [BACKEND: %s]", store.Name())

	var notifier services.DecisionNotifier
	if cfg.Mail.Enabled() {
		client, err := services.NewSMTPClient(cfg.Mail)
		if err != nil {
			log.Printf("⚠️ Mail disabled: %v", err)
		} else {
			notifier = services.NewNotificationService(client, cfg.Mail.From, cfg.Mail.RetryDelay)
		}
	}

	documentService := services.NewDocumentService(
		repositories.NewDocumentRepository(db),
		repositories.NewOrphanedFileRepository(db),
		store,
		cfg.Upload.MaxFileSize,
	)

	// Background jobs: orphaned file reconciliation and expired token cleanup
	cronService, err := services.NewCronService(documentService, repositories.NewRefreshTokenRepository(db), cfg.Cron)
	if err != nil {
		log.Fatalf("❌ Failed to schedule background jobs: %v", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MFI Back Office API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxFileSize) * uploadBodyFiles,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, limiterStore)

	routes.Setup(app, routes.Deps{
		DB:           db,
		Config:       cfg,
		Storage:      store,
		Documents:    documentService,
		Redis:        rdb,
		LimiterStore: limiterStore,
		Notifier:     notifier,
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStorage picks the document storage backend from configuration
func openStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.Upload.Backend == "cloudinary" {
		c := cfg.Cloudinary
		s, err := storage.NewCloudinaryStorage(c.CloudName, c.APIKey, c.APISecret, c.Folder)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
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
