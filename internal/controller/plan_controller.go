package controller

import (
	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
)

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Order("monthly_price asc").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch plans",
		})
	}

	return c.JSON(plans)
}

// ListFeatureCatalog returns the global feature catalog, including features
// not yet available.
func ListFeatureCatalog(c *fiber.Ctx) error {
	var features []model.FeatureFlag
	if err := database.DB.Order("key asc").Find(&features).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch feature catalog",
		})
	}

	return c.JSON(features)
}
