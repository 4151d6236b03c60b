package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/entitlement"
	"condofacil_backend/pkg/utils/jwt"
)

type ToggleFeatureInput struct {
	Enabled bool `json:"enabled"`
}

// GetMyFeatures returns the resolved feature matrix for the caller's condo.
func GetMyFeatures(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	features, err := entitlement.ResolveAll(database.DB, claims.CondoID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not resolve features",
		})
	}

	return c.JSON(fiber.Map{
		"features": features,
	})
}

// GetFeature resolves a single feature for the caller's condo.
func GetFeature(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	key := c.Params("key")

	res, err := entitlement.Resolve(database.DB, claims.CondoID, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not resolve feature",
		})
	}

	return c.JSON(res)
}

// ToggleFeature enables or disables a feature for the caller's condo. The
// override write, activation-log append and audit entry are one transaction.
func ToggleFeature(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	key := c.Params("key")

	input := new(ToggleFeatureInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	res, err := entitlement.Toggle(database.DB, claims.CondoID, key, input.Enabled, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrFeatureNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Feature not found",
			})
		case errors.Is(err, entitlement.ErrFeatureUnavailable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This feature is not available yet",
			})
		case errors.Is(err, entitlement.ErrFeatureNotToggleable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This feature cannot be toggled on your plan",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(res)
}

// GetFeatureHistory lists the activation log of one feature, newest first.
func GetFeatureHistory(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	key := c.Params("key")

	var logs []model.FeatureActivationLog
	err := database.DB.Where("condo_id = ? AND feature_key = ?", claims.CondoID, key).
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch feature history",
		})
	}

	return c.JSON(fiber.Map{
		"history": logs,
	})
}
