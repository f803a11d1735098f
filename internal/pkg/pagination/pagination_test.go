package pagination

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string, defaultLimit int) Params {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(FromQuery(c, defaultLimit))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var p Params
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 0}, paramsFor(t, "", 0))
	assert.Equal(t, Params{Page: 1, Limit: 20}, paramsFor(t, "", 20))
	assert.Equal(t, Params{Page: 3, Limit: 5}, paramsFor(t, "?page=3&limit=5", 0))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit}, paramsFor(t, "?limit=100000", 0))
	assert.Equal(t, Params{Page: 1, Limit: 20}, paramsFor(t, "?page=-4&limit=abc", 20))
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(Params{Page: 2, Limit: 10, Offset: 10}, 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	unbounded := GetMeta(Params{Page: 1}, 7)
	assert.Equal(t, 1, unbounded.TotalPages)
	assert.Equal(t, 7, unbounded.Limit)
	assert.False(t, unbounded.HasNext)
}
