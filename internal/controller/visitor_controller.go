package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type RegisterVisitorInput struct {
	UnitID         uint   `json:"unit_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Document       string `json:"document"`
	AuthorizedByID *uint  `json:"authorized_by_id"`
	Notes          string `json:"notes"`
}

// RegisterVisitor records an entry at the gatehouse.
func RegisterVisitor(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(RegisterVisitorInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" || input.UnitID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unit_id and name are required",
		})
	}

	var unit model.Unit
	if err := database.DB.Where("id = ? AND condo_id = ?", input.UnitID, claims.CondoID).
		First(&unit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	visit := model.VisitorLog{
		CondoID:        claims.CondoID,
		UnitID:         input.UnitID,
		Name:           input.Name,
		Document:       input.Document,
		AuthorizedByID: input.AuthorizedByID,
		RegisteredByID: claims.UserID,
		EnteredAt:      time.Now(),
		Notes:          input.Notes,
	}
	if err := database.DB.Create(&visit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not register visitor",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(visit)
}

// RegisterVisitorExit closes an open visit.
func RegisterVisitorExit(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	visitID := c.Params("id")

	var visit model.VisitorLog
	if err := database.DB.Where("id = ? AND condo_id = ?", visitID, claims.CondoID).
		First(&visit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Visit not found",
		})
	}

	if visit.LeftAt != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Visit already closed",
		})
	}

	now := time.Now()
	if err := database.DB.Model(&visit).Update("left_at", now).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not register exit",
		})
	}

	return c.JSON(visit)
}

func ListVisitors(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.DB.Where("condo_id = ?", claims.CondoID)
	if c.Query("open") == "true" {
		query = query.Where("left_at IS NULL")
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}

	var visits []model.VisitorLog
	if err := query.Order("entered_at desc").Limit(200).Find(&visits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch visitor logs",
		})
	}

	return c.JSON(visits)
}
