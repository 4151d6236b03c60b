package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
	"condofacil_backend/pkg/utils/storage"
	"condofacil_backend/pkg/utils/validation"
)

type CreateAssemblyInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type CreatePollInput struct {
	Question string    `json:"question" validate:"required"`
	Options  []string  `json:"options" validate:"required"`
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

type VoteInput struct {
	Option string `json:"option" validate:"required"`
}

func CreateAssembly(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateAssemblyInput)
	if err := c.BodyParser(input); err != nil || input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	assembly := model.Assembly{
		CondoID:     claims.CondoID,
		Title:       input.Title,
		Description: input.Description,
		ScheduledAt: input.ScheduledAt,
	}
	if err := database.DB.Create(&assembly).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create assembly",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(assembly)
}

func ListAssemblies(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var assemblies []model.Assembly
	err := database.DB.Where("condo_id = ?", claims.CondoID).
		Order("scheduled_at desc").
		Find(&assemblies).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch assemblies",
		})
	}

	return c.JSON(assemblies)
}

// UploadAssemblyMinutes stores the ata (PDF) in R2 and links it.
func UploadAssemblyMinutes(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	assemblyID := c.Params("id")

	var assembly model.Assembly
	if err := database.DB.Where("id = ? AND condo_id = ?", assemblyID, claims.CondoID).
		First(&assembly).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assembly not found",
		})
	}

	file, err := c.FormFile("minutes")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateDocument(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
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
		Kind:        "atas",
		Filename:    file.Filename,
		Body:        buf,
		ContentType: "application/pdf",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store minutes",
		})
	}

	if err := database.DB.Model(&assembly).Update("minutes_url", result.URL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save minutes reference",
		})
	}

	return c.JSON(fiber.Map{
		"minutes_url": result.URL,
	})
}

func CreatePoll(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	assemblyID := c.Params("id")

	var assembly model.Assembly
	if err := database.DB.Where("id = ? AND condo_id = ?", assemblyID, claims.CondoID).
		First(&assembly).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assembly not found",
		})
	}

	input := new(CreatePollInput)
	if err := c.BodyParser(input); err != nil || input.Question == "" || len(input.Options) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question and at least two options are required",
		})
	}

	options, err := json.Marshal(input.Options)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid options",
		})
	}

	poll := model.Poll{
		AssemblyID: assembly.ID,
		CondoID:    claims.CondoID,
		Question:   input.Question,
		Options:    options,
		OpensAt:    input.OpensAt,
		ClosesAt:   input.ClosesAt,
	}
	if err := database.DB.Create(&poll).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create poll",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

// Vote records the caller's choice. The unique index on (poll, user) makes a
// second vote fail.
func Vote(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	pollID := c.Params("id")

	var poll model.Poll
	if err := database.DB.Where("id = ? AND condo_id = ?", pollID, claims.CondoID).
		First(&poll).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Poll not found",
		})
	}

	now := time.Now()
	if now.Before(poll.OpensAt) || now.After(poll.ClosesAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Poll is not open",
		})
	}

	input := new(VoteInput)
	if err := c.BodyParser(input); err != nil || input.Option == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "option is required",
		})
	}

	var options []string
	if err := json.Unmarshal(poll.Options, &options); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read poll options",
		})
	}
	validOption := false
	for _, o := range options {
		if o == input.Option {
			validOption = true
			break
		}
	}
	if !validOption {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Option is not part of this poll",
		})
	}

	vote := model.Vote{
		PollID: poll.ID,
		UserID: claims.UserID,
		Option: input.Option,
	}
	if err := database.DB.Create(&vote).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You have already voted in this poll",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Vote recorded",
	})
}

func GetPollResults(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	pollID := c.Params("id")

	var poll model.Poll
	if err := database.DB.Where("id = ? AND condo_id = ?", pollID, claims.CondoID).
		First(&poll).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Poll not found",
		})
	}

	var results []struct {
		Option string `json:"option"`
		Count  int64  `json:"count"`
	}
	err := database.DB.Model(&model.Vote{}).
		Select("option, count(*) as count").
		Where("poll_id = ?", poll.ID).
		Group("option").
		Scan(&results).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch results",
		})
	}

	return c.JSON(fiber.Map{
		"poll_id":  poll.ID,
		"question": poll.Question,
		"results":  results,
	})
}
