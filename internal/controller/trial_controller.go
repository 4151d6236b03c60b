package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/entitlement"
	"condofacil_backend/pkg/utils/jwt"
)

// GetTrialStatus reports the trial state of the caller's condo.
func GetTrialStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var condo model.Condo
	if err := database.DB.First(&condo, claims.CondoID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condominium not found",
		})
	}

	info := entitlement.TrialStatus(&condo, time.Now())
	return c.JSON(info)
}
