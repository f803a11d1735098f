package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"mfi-backoffice/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", domain.NewValidationError("Invalid loan amount", "above maximum"), fiber.StatusBadRequest, "Invalid loan amount"},
		{"not found", domain.NotFoundError("application"), fiber.StatusNotFound, "Application not found"},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
		{"forbidden", fmt.Errorf("reset: %w", domain.ErrForbidden), fiber.StatusForbidden, "You don't have permission to access this resource"},
		{"conflict", fmt.Errorf("%w: email already registered", domain.ErrConflict), fiber.StatusConflict, "conflict: email already registered"},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, "Something failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return FromError(c, tt.err, "Application not found", "Something failed")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestFromError_StorageSummaryHidesCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FromError(c, domain.StorageError("create application", errors.New("dial tcp 10.0.0.5:3306")), "", "fallback")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Error, "10.0.0.5")
}
