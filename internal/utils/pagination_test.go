package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseVia(t *testing.T, query string) Pagination {
	t.Helper()

	var got Pagination
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"explicit", "page=3&limit=20", Pagination{Page: 3, Limit: 20, Offset: 40}},
		{"zero normalizes", "page=0&limit=0", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"negative normalizes", "page=-2&limit=-5", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"non-numeric normalizes", "page=abc&limit=xyz", Pagination{Page: 1, Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVia(t, tt.query))
		})
	}
}
