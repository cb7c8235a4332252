package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tcnexs/backend/internal/listing"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

// pageParams reads page and limit; absent or malformed values fall back to defaults.
func pageParams(c *fiber.Ctx) listing.Params {
	return listing.NewParams(
		c.QueryInt("page", listing.DefaultPage),
		c.QueryInt("limit", listing.DefaultLimit),
	)
}

func queryString(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

func queryID(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewValidationError("Invalid "+key, map[string]any{key: raw})
	}
	return &id, nil
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}
