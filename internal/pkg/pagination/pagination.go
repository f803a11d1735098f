package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// MaxLimit is the largest page size a caller may request
const MaxLimit = 500

// Params holds the optional page/limit window of a list request.
// Limit 0 means the caller asked for every match.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta describes the returned window
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// FromQuery reads `page` and `limit` from the query string.
// A missing or non-positive limit falls back to defaultLimit (0 = unbounded).
func FromQuery(c *fiber.Ctx, defaultLimit int) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	p := Params{Page: page, Limit: limit}
	if limit > 0 {
		p.Offset = (page - 1) * limit
	}
	return p
}

// GetMeta calculates pagination metadata for total matching rows
func GetMeta(params Params, total int64) Meta {
	if params.Limit == 0 {
		return Meta{Page: 1, Limit: int(total), Total: total, TotalPages: 1}
	}

	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
