package middleware

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CronAuth guards the scheduled-job endpoints with the CRON_SECRET shared
// bearer token.
func CronAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("CRON_SECRET")
		if secret == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Cron secret is not configured",
			})
		}

		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid cron token",
			})
		}

		return c.Next()
	}
}
