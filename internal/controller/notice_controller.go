package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateNoticeInput struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

func CreateNotice(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateNoticeInput)
	if err := c.BodyParser(input); err != nil || input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	now := time.Now()
	notice := model.Notice{
		CondoID:     claims.CondoID,
		AuthorID:    claims.UserID,
		Title:       input.Title,
		Slug:        slug.Make(input.Title),
		Body:        input.Body,
		Pinned:      input.Pinned,
		PublishedAt: &now,
	}
	if err := database.DB.Create(&notice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create notice",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(notice)
}

func ListNotices(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var notices []model.Notice
	err := database.DB.Where("condo_id = ?", claims.CondoID).
		Order("pinned desc, published_at desc").
		Find(&notices).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch notices",
		})
	}

	return c.JSON(notices)
}

func DeleteNotice(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	noticeID := c.Params("id")

	var notice model.Notice
	if err := database.DB.Where("id = ? AND condo_id = ?", noticeID, claims.CondoID).
		First(&notice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notice not found",
		})
	}

	if err := database.DB.Delete(&notice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete notice",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notice deleted",
	})
}
