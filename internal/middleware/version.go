package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DefaultAPIVersion is used when a request sends no X-Api-Version header
const DefaultAPIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header, stores it in context and echoes it on the response
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", DefaultAPIVersion)

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = DefaultAPIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}

// APIVersion returns the version stored by VersionMiddleware
func APIVersion(c *fiber.Ctx) string {
	if v, ok := c.Locals("apiVersion").(string); ok {
		return v
	}
	return DefaultAPIVersion
}

// RequestIDGenerator produces request ids for the fiber requestid middleware
func RequestIDGenerator() string {
	return uuid.NewString()
}
