package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type CreateTicketInput struct {
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority"`
}

type TicketMessageInput struct {
	Message string `json:"message" validate:"required"`
}

type UpdateTicketStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// CreateTicket opens a ticket with its first message in one transaction.
func CreateTicket(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateTicketInput)
	if err := c.BodyParser(input); err != nil || input.Subject == "" || input.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject and message are required",
		})
	}

	priority := input.Priority
	if priority == "" {
		priority = "normal"
	}

	ticket := model.SupportTicket{
		CondoID:    claims.CondoID,
		OpenedByID: claims.UserID,
		Subject:    input.Subject,
		Status:     model.TicketStatusOpen,
		Priority:   priority,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		return tx.Create(&model.TicketMessage{
			TicketID: ticket.ID,
			AuthorID: claims.UserID,
			Body:     input.Message,
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create ticket",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func ListMyTickets(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := database.DB.Where("condo_id = ?", claims.CondoID)
	// moradores only see their own tickets
	if claims.Role == model.RoleMorador {
		query = query.Where("opened_by_id = ?", claims.UserID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []model.SupportTicket
	if err := query.Order("created_at desc").Find(&tickets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch tickets",
		})
	}

	return c.JSON(tickets)
}

func GetTicket(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	ticketID := c.Params("id")

	var ticket model.SupportTicket
	if err := database.DB.Where("id = ? AND condo_id = ?", ticketID, claims.CondoID).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&ticket).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ticket not found",
		})
	}

	if claims.Role == model.RoleMorador && ticket.OpenedByID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to access this ticket",
		})
	}

	if !ticket.ReadStatus && ticket.OpenedByID != claims.UserID {
		database.DB.Model(&ticket).Update("read_status", true)
	}

	return c.JSON(ticket)
}

func AddTicketMessage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	ticketID := c.Params("id")

	var ticket model.SupportTicket
	if err := database.DB.Where("id = ? AND condo_id = ?", ticketID, claims.CondoID).
		First(&ticket).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ticket not found",
		})
	}

	if ticket.Status == model.TicketStatusClosed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Ticket is closed",
		})
	}

	input := new(TicketMessageInput)
	if err := c.BodyParser(input); err != nil || input.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	message := model.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: claims.UserID,
		Body:     input.Message,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func UpdateTicketStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	ticketID := c.Params("id")

	input := new(UpdateTicketStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	valid := map[string]bool{
		model.TicketStatusOpen:       true,
		model.TicketStatusInProgress: true,
		model.TicketStatusResolved:   true,
		model.TicketStatusClosed:     true,
	}
	if !valid[input.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	var ticket model.SupportTicket
	if err := database.DB.Where("id = ? AND condo_id = ?", ticketID, claims.CondoID).
		First(&ticket).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ticket not found",
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == model.TicketStatusResolved {
		now := time.Now()
		updates["resolved_at"] = now
	}

	if err := database.DB.Model(&ticket).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update ticket",
		})
	}

	return c.JSON(ticket)
}
