package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Redis      RedisConfig
	Upload     UploadConfig
	Cloudinary CloudinaryConfig
	Mail       MailConfig
	Cron       CronConfig
	Seed       SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// UploadConfig holds document upload configuration
type UploadConfig struct {
	Backend     string // local or cloudinary
	Dir         string
	BaseURL     string
	MaxFileSize int64
}

// CloudinaryConfig holds Cloudinary credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// MailConfig holds SMTP configuration. An empty Host disables mail.
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	RetryDelay time.Duration
}

// Enabled reports whether an SMTP host was configured
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// CronConfig holds background job schedules
type CronConfig struct {
	ReconcileSpec    string
	TokenCleanupSpec string
}

// SeedConfig holds first-run seed data
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		Redis:      loadRedisConfig(),
		Upload:     loadUploadConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Mail:       loadMailConfig(),
		Cron: CronConfig{
			ReconcileSpec:    getEnv("CRON_RECONCILE_SPEC", "*/15 * * * *"),
			TokenCleanupSpec: getEnv("CRON_TOKEN_CLEANUP_SPEC", "0 3 * * *"),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s, UPLOAD: %s]",
		appMode, config.Database.Driver, config.Upload.Backend)
	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", c.Database.Driver)
	}

	switch c.Upload.Backend {
	case "local":
	case "cloudinary":
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("UPLOAD_BACKEND=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("invalid UPLOAD_BACKEND: '%s' (must be 'local' or 'cloudinary')", c.Upload.Backend)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be positive")
	}
	return nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "mysql")))

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "mfi_backoffice"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:           getEnv("REDIS_ADDR", ""),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             getEnvInt("REDIS_DB", 0),
		IdempotencyTTL: getEnvDuration("REDIS_IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func loadUploadConfig() UploadConfig {
	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_FILE_SIZE", "10485760"), 10, 64)
	if err != nil {
		maxSize = 0
	}

	return UploadConfig{
		Backend:     strings.ToLower(strings.TrimSpace(getEnv("UPLOAD_BACKEND", "local"))),
		Dir:         getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:     getEnv("UPLOAD_BASE_URL", "/uploads"),
		MaxFileSize: maxSize,
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "mfi-documents"),
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Host:       getEnv("SMTP_HOST", ""),
		Port:       getEnvInt("SMTP_PORT", 587),
		Username:   getEnv("SMTP_USERNAME", ""),
		Password:   getEnv("SMTP_PASSWORD", ""),
		From:       getEnv("SMTP_FROM", "no-reply@example.com"),
		RetryDelay: getEnvDuration("SMTP_RETRY_DELAY", 500*time.Millisecond),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://backoffice.example.org"
	}
	return origins
}
