package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/abdurrasheedfalalu/microblog/internal/services"
	"github.com/abdurrasheedfalalu/microblog/pkg/translator"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams reads the page/page_size query parameters, clamping them to
// sane bounds. Pages are 1-based.
func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// serviceError maps the service error taxonomy onto an HTTP response.
// Anything outside the taxonomy is an infrastructure failure and comes back
// as a 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidResetToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrEmptyPostBody),
		errors.Is(err, services.ErrPostTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, translator.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "translation is currently unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}
