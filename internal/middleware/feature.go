package middleware

import (
	"github.com/gofiber/fiber/v2"

	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/entitlement"
	"condofacil_backend/pkg/utils/jwt"
)

// CheckFeatureAccess gates a route on the resolved feature state of the
// caller's condo. Resolution failures block access: the gate fails closed.
func CheckFeatureAccess(featureKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		res, err := entitlement.Resolve(database.DB, claims.CondoID, featureKey)
		if err != nil || !res.Enabled {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "This feature is not enabled for your condominium",
				"feature": featureKey,
			})
		}

		return c.Next()
	}
}
