package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/entitlement"
	"condofacil_backend/pkg/utils/jwt"
)

// TrialGate blocks condos whose trial has expired. The computation itself is
// pure; this is the access-block layer that consumes it.
func TrialGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		var condo model.Condo
		if err := database.DB.First(&condo, claims.CondoID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Condominium not found",
			})
		}

		info := entitlement.TrialStatus(&condo, time.Now())
		if info.IsExpired {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "Your trial period has ended. Choose a plan to continue.",
				"trial_expired": true,
			})
		}

		return c.Next()
	}
}
