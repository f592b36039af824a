// Package auth provides API key authentication middleware for Fiber.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. If empty, authentication is disabled.
	ApiKey string
}

// New creates a middleware that rejects requests without a valid API key.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Auth disabled when no key is configured (local development)
		if cfg.ApiKey == "" {
			return c.Next()
		}

		provided := c.Get(HeaderName)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing api key",
			})
		}

		return c.Next()
	}
}
