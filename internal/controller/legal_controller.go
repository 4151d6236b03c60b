package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type AcceptLegalInput struct {
	DocumentKey string `json:"document_key" validate:"required"`
	Version     string `json:"version"`
}

// CheckLegalAcceptance reports whether the user accepted a document. On any
// storage failure it answers accepted=true: blocking every user because the
// acceptance table is unreachable is worse than letting one through. Keep
// this fail-open behavior.
func CheckLegalAcceptance(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	documentKey := c.Query("document", "termos_de_uso")

	var count int64
	err := database.DB.Model(&model.LegalAcceptance{}).
		Where("user_id = ? AND document_key = ?", claims.UserID, documentKey).
		Count(&count).Error
	if err != nil {
		log.Printf("Legal acceptance check failed, failing open: %v", err)
		return c.JSON(fiber.Map{
			"accepted": true,
		})
	}

	return c.JSON(fiber.Map{
		"accepted": count > 0,
	})
}

func AcceptLegalDocument(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(AcceptLegalInput)
	if err := c.BodyParser(input); err != nil || input.DocumentKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document_key is required",
		})
	}

	acceptance := model.LegalAcceptance{
		UserID:      claims.UserID,
		DocumentKey: input.DocumentKey,
		Version:     input.Version,
	}
	if err := database.DB.Where(model.LegalAcceptance{
		UserID:      claims.UserID,
		DocumentKey: input.DocumentKey,
	}).FirstOrCreate(&acceptance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record acceptance",
		})
	}

	return c.JSON(fiber.Map{
		"accepted": true,
	})
}
