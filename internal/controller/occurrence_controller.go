package controller

import (
	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/image"
	"condofacil_backend/pkg/utils/jwt"
	"condofacil_backend/pkg/utils/storage"
	"condofacil_backend/pkg/utils/validation"
)

type CreateOccurrenceInput struct {
	UnitID      *uint  `json:"unit_id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdateOccurrenceStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func CreateOccurrence(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateOccurrenceInput)
	if err := c.BodyParser(input); err != nil || input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	occurrence := model.Occurrence{
		CondoID:      claims.CondoID,
		UnitID:       input.UnitID,
		ReportedByID: claims.UserID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       model.OccurrenceStatusOpen,
	}
	if err := database.DB.Create(&occurrence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create occurrence",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(occurrence)
}

func ListOccurrences(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.DB.Where("condo_id = ?", claims.CondoID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var occurrences []model.Occurrence
	if err := query.Order("created_at desc").Find(&occurrences).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch occurrences",
		})
	}

	return c.JSON(occurrences)
}

// UpdateOccurrenceStatus moves an occurrence through its lifecycle
// (open -> in_progress -> resolved). Síndico only.
func UpdateOccurrenceStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	occurrenceID := c.Params("id")

	input := new(UpdateOccurrenceStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	valid := map[string]bool{
		model.OccurrenceStatusOpen:       true,
		model.OccurrenceStatusInProgress: true,
		model.OccurrenceStatusResolved:   true,
	}
	if !valid[input.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	var occurrence model.Occurrence
	if err := database.DB.Where("id = ? AND condo_id = ?", occurrenceID, claims.CondoID).
		First(&occurrence).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Occurrence not found",
		})
	}

	if err := database.DB.Model(&occurrence).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update occurrence",
		})
	}

	return c.JSON(occurrence)
}

// UploadOccurrencePhoto re-encodes the photo and stores it in R2.
func UploadOccurrencePhoto(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	occurrenceID := c.Params("id")

	var occurrence model.Occurrence
	if err := database.DB.Where("id = ? AND condo_id = ?", occurrenceID, claims.CondoID).
		First(&occurrence).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Occurrence not found",
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var condo model.Condo
	if err := database.DB.First(&condo, claims.CondoID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condominium not found",
		})
	}

	result, err := storage.UploadFile(storage.UploadConfig{
		CondoSlug:   condo.Slug,
		Kind:        "ocorrencias",
		Filename:    file.Filename,
		Body:        buf,
		ContentType: contentType,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store photo",
		})
	}

	if err := database.DB.Model(&occurrence).Update("photo_url", result.URL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save photo reference",
		})
	}

	return c.JSON(fiber.Map{
		"photo_url": result.URL,
	})
}
