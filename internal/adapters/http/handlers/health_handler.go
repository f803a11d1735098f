package handlers

import (
	"context"
	"time"

	"mfi-backoffice/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewHealthHandler creates a new health handler. rdb may be nil.
func NewHealthHandler(cfg *config.Config, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, rdb: rdb}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 MFI Back Office API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and Redis health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	checks := fiber.Map{"api": "healthy"}

	if err := config.HealthCheck(); err != nil {
		checks["database"] = "unhealthy"
		status = "degraded"
	} else {
		checks["database"] = "healthy"
	}

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy"
			status = "degraded"
		} else {
			checks["redis"] = "healthy"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "MFI Back Office API v1.0",
		"version": "1.0.0",
	})
}
