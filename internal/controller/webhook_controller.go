package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/payment"
)

// HandlePaymentWebhook receives provider notifications. The raw payload is
// persisted before anything acts on it; an event that matches nothing in our
// records is acknowledged without touching the database further, so the
// provider stops retrying.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	provider := c.Query("provider", "stripe")
	payload := c.Body()
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		signature = c.Get("X-Webhook-Signature")
	}

	gateway, err := payment.Get(provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	event, err := gateway.ParseWebhook(payload, signature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	webhookLog := model.PaymentWebhookLog{
		Provider:  provider,
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   payload,
	}
	if err := database.DB.Create(&webhookLog).Error; err != nil {
		log.Printf("Could not persist webhook payload: %v", err)
	}

	log.Printf("Processing %s webhook event: %s", provider, event.Type)

	switch event.Type {
	case payment.EventPaymentSucceeded:
		if err := applyPaymentSucceeded(database.DB, provider, event); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not apply payment",
				})
			}
			// no matching charge: acknowledge and move on
			log.Printf("Webhook payment %s matches no charge, ignoring", event.ChargeRef)
		}

	case payment.EventSubscriptionCancelled:
		err := database.DB.Model(&model.Subscription{}).
			Where("stripe_sub_id = ?", event.SubscriptionID).
			Update("status", model.SubscriptionStatusCancelled).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

	case payment.EventSubscriptionUpdated:
		err := database.DB.Model(&model.Subscription{}).
			Where("stripe_sub_id = ?", event.SubscriptionID).
			Update("expires_at", event.PeriodEnd).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription expiry",
			})
		}
	}

	if webhookLog.ID != 0 {
		database.DB.Model(&webhookLog).Update("processed", true)
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}

// applyPaymentSucceeded settles the charge and records the payment as one
// transaction. gorm.ErrRecordNotFound means the event references a charge we
// never issued.
func applyPaymentSucceeded(db *gorm.DB, provider string, event *payment.Event) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var charge model.Charge
		if err := tx.Where("provider_ref = ?", event.ChargeRef).First(&charge).Error; err != nil {
			return err
		}

		p := model.Payment{
			ChargeID:    charge.ID,
			Amount:      event.Amount,
			Provider:    provider,
			ProviderRef: event.ID,
			PaidAt:      event.PaidAt,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		return tx.Model(&charge).Updates(map[string]interface{}{
			"status":  model.ChargeStatusPaid,
			"paid_at": event.PaidAt,
		}).Error
	})
}
