package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// ListParams carries pagination, sorting and filtering read from a
// list endpoint's query string.
type ListParams struct {
	Page      int64
	Limit     int64
	Search    string
	Filters   []models.Filter
	SortBy    string
	SortOrder int // 1 ascending, -1 descending
}

// ParseListParams reads page/limit/search/filters/sort_by/sort_order.
// Filters arrive as a JSON-encoded array of typed filter objects.
func ParseListParams(c *fiber.Ctx) (*ListParams, error) {
	params := &ListParams{
		Page:      1,
		Limit:     10,
		SortOrder: -1,
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 64)
		if err != nil || page < 1 {
			return nil, apperror.Validation("invalid page parameter")
		}
		params.Page = page
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 1 || limit > 200 {
			return nil, apperror.Validation("invalid limit parameter")
		}
		params.Limit = limit
	}

	params.Search = strings.TrimSpace(c.Query("search"))
	params.SortBy = c.Query("sort_by")
	if c.Query("sort_order") == "asc" {
		params.SortOrder = 1
	}

	if raw := c.Query("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Filters); err != nil {
			return nil, apperror.Validation("filters must be a JSON array of filter objects")
		}
	}

	return params, nil
}

// Offset returns the number of documents to skip for the current page.
func (p *ListParams) Offset() int64 {
	return (p.Page - 1) * p.Limit
}

// TotalPages derives the page count for a result set of the given size.
func (p *ListParams) TotalPages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
