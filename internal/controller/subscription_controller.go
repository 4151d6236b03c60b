package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/email"
	"condofacil_backend/pkg/payment"
	"condofacil_backend/pkg/utils/jwt"
)

type SubscribeInput struct {
	PlanID   uint   `json:"plan_id" validate:"required"`
	Provider string `json:"provider"`
}

func InitSubscriptionController() {
	payment.Register(payment.NewStripeGateway())
}

// Subscribe creates a gateway subscription for the caller's condo and
// records it. Ends the trial: the condo flips to paid status.
func Subscribe(c *fiber.Ctx) error {
	input := new(SubscribeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Provider == "" {
		input.Provider = "stripe"
	}

	claims := c.Locals("user").(*jwt.Claims)

	var plan model.Plan
	if err := database.DB.First(&plan, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var condo model.Condo
	if err := database.DB.First(&condo, claims.CondoID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condominium not found",
		})
	}

	gateway, err := payment.Get(input.Provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := gateway.CreateSubscription(&user, &condo, &plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subscription",
		})
	}

	subscription := model.Subscription{
		CondoID:     condo.ID,
		PlanID:      plan.ID,
		Status:      model.SubscriptionStatusActive,
		StripeSubID: result.ProviderSubID,
		ExpiresAt:   &result.ExpiresAt,
	}
	if err := database.DB.Create(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	// paid now: clear the trial clock and pin the plan
	updates := map[string]interface{}{
		"plan_id":       plan.ID,
		"status":        model.CondoStatusActive,
		"trial_ends_at": nil,
	}
	if err := database.DB.Model(&condo).Updates(updates).Error; err != nil {
		log.Printf("Could not update condo %d after subscription: %v", condo.ID, err)
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email, condo.Name, plan.Name, plan.MonthlyPrice, result.ExpiresAt, false,
		); err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": subscription,
	})
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.DB.Where("condo_id = ? AND status = ?", claims.CondoID, model.SubscriptionStatusActive).
		Order("created_at desc").
		Preload("Plan").
		Preload("Condo").
		First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	gateway, err := payment.Get("stripe")
	if err == nil && sub.StripeSubID != "" {
		if err := gateway.CancelSubscription(sub.StripeSubID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not cancel subscription with the payment provider",
			})
		}
	}

	sub.Status = model.SubscriptionStatusCancelled
	if err := database.DB.Save(&sub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		expiresAt := time.Now()
		if sub.ExpiresAt != nil {
			expiresAt = *sub.ExpiresAt
		}
		if err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			claims.Email, sub.Condo.Name, sub.Plan.Name, expiresAt,
		); err != nil {
			log.Printf("Could not send cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.DB.Where("condo_id = ? AND status = ?", claims.CondoID, model.SubscriptionStatusActive).
		Order("created_at desc").
		Preload("Plan").
		First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(sub)
}
