package controller

import (
	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateUnitInput struct {
	Block  string `json:"block"`
	Number string `json:"number" validate:"required"`
	Floor  int    `json:"floor"`
}

func CreateUnit(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateUnitInput)
	if err := c.BodyParser(input); err != nil || input.Number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "number is required",
		})
	}

	unit := model.Unit{
		CondoID: claims.CondoID,
		Block:   input.Block,
		Number:  input.Number,
		Floor:   input.Floor,
	}
	if err := database.DB.Create(&unit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create unit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(unit)
}

func ListUnits(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var units []model.Unit
	err := database.DB.Where("condo_id = ?", claims.CondoID).
		Order("block asc, number asc").
		Find(&units).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch units",
		})
	}

	return c.JSON(units)
}

// ListUnitResidents returns the users linked to one unit of the caller's
// condo.
func ListUnitResidents(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	unitID := c.Params("id")

	var unit model.Unit
	if err := database.DB.Where("id = ? AND condo_id = ?", unitID, claims.CondoID).
		First(&unit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	var residents []model.User
	if err := database.DB.Where("unit_id = ?", unit.ID).Find(&residents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch residents",
		})
	}

	out := make([]map[string]interface{}, 0, len(residents))
	for i := range residents {
		out = append(out, residents[i].GetPublicProfile())
	}

	return c.JSON(out)
}
