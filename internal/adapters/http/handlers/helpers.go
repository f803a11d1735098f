package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// getClientIP returns the client IP, preferring proxy headers
func getClientIP(c *fiber.Ctx) string {
	ip := c.Get("X-Real-IP")
	if ip == "" {
		// first hop of X-Forwarded-For is the client
		ip, _, _ = strings.Cut(c.Get(fiber.HeaderXForwardedFor), ",")
		ip = strings.TrimSpace(ip)
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

// parseID reads the :id route parameter
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
