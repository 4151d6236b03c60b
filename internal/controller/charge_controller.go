package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateChargeInput struct {
	UnitID      *uint     `json:"unit_id"`
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// CreateCharge issues a cobrança. Síndico only (route-level RequireRole).
func CreateCharge(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateChargeInput)
	if err := c.BodyParser(input); err != nil || input.Description == "" || input.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "description and a positive amount are required",
		})
	}
	if input.DueDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "due_date is required",
		})
	}

	if input.UnitID != nil {
		var unit model.Unit
		if err := database.DB.Where("id = ? AND condo_id = ?", *input.UnitID, claims.CondoID).
			First(&unit).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Unit not found",
			})
		}
	}

	charge := model.Charge{
		CondoID:     claims.CondoID,
		UnitID:      input.UnitID,
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		Status:      model.ChargeStatusPending,
	}
	if err := database.DB.Create(&charge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create charge",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(charge)
}

// ListCharges returns the condo's charges. Moradores only see charges for
// their own unit.
func ListCharges(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.DB.Where("condo_id = ?", claims.CondoID)
	if claims.Role == model.RoleMorador {
		var user model.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		if user.UnitID == nil {
			return c.JSON([]model.Charge{})
		}
		query = query.Where("unit_id = ?", *user.UnitID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var charges []model.Charge
	if err := query.Order("due_date desc").Find(&charges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch charges",
		})
	}

	return c.JSON(charges)
}

// CancelCharge marks a pending or overdue charge as cancelled. Paid charges
// can't be cancelled.
func CancelCharge(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	chargeID := c.Params("id")

	var charge model.Charge
	if err := database.DB.Where("id = ? AND condo_id = ?", chargeID, claims.CondoID).
		First(&charge).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Charge not found",
		})
	}

	if charge.Status == model.ChargeStatusPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Paid charges cannot be cancelled",
		})
	}

	if err := database.DB.Model(&charge).Update("status", model.ChargeStatusCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel charge",
		})
	}

	return c.JSON(charge)
}
