package controller

import (
	"fmt"
	"log"
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/demo"
	"condofacil_backend/pkg/email"
)

type CreateDemoInput struct {
	OperatorEmail string `json:"operator_email" validate:"required,email"`
	CondoName     string `json:"condo_name" validate:"required"`
}

// CreateDemo provisions a fresh demo condo for a prospect.
func CreateDemo(c *fiber.Ctx) error {
	input := new(CreateDemoInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if _, err := mail.ParseAddress(input.OperatorEmail); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid operator email",
		})
	}
	if input.CondoName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "condo_name is required",
		})
	}

	condo, session, err := demo.CreateDemoCondo(database.DB, input.OperatorEmail, input.CondoName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	accessLink := fmt.Sprintf("https://app.condofacil.app/demo/%s", session.Token)
	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendDemoWelcomeEmail(
			session.OperatorEmail, condo.Name, accessLink, session.ExpiresAt,
		); err != nil {
			log.Printf("Could not send demo welcome email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Demo environment created",
		"condo": fiber.Map{
			"id":            condo.ID,
			"name":          condo.Name,
			"slug":          condo.Slug,
			"trial_ends_at": condo.TrialEndsAt,
		},
		"token":       session.Token,
		"access_link": accessLink,
		"expires_at":  session.ExpiresAt,
	})
}

// ResetDemo restores a demo condo to its sample state, looked up by session
// token.
func ResetDemo(c *fiber.Ctx) error {
	token := c.Params("token")

	var session model.DemoSession
	if err := database.DB.Where("token = ?", token).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Demo session not found",
		})
	}

	if err := demo.ResetDemoCondo(database.DB, session.CondoID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Demo environment reset",
	})
}
