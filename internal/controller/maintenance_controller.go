package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateMaintenanceTaskInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

func CreateMaintenanceTask(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateMaintenanceTaskInput)
	if err := c.BodyParser(input); err != nil || input.Title == "" || input.DueDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title and due_date are required",
		})
	}

	task := model.MaintenanceTask{
		CondoID:     claims.CondoID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      "pending",
	}
	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create maintenance task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func ListMaintenanceTasks(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.DB.Where("condo_id = ?", claims.CondoID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []model.MaintenanceTask
	if err := query.Order("due_date asc").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch maintenance tasks",
		})
	}

	return c.JSON(tasks)
}

func CompleteMaintenanceTask(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	taskID := c.Params("id")

	var task model.MaintenanceTask
	if err := database.DB.Where("id = ? AND condo_id = ?", taskID, claims.CondoID).
		First(&task).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Maintenance task not found",
		})
	}

	if err := database.DB.Model(&task).Update("status", "done").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update maintenance task",
		})
	}

	return c.JSON(task)
}
