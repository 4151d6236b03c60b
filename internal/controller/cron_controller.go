package controller

import (
	"github.com/gofiber/fiber/v2"

	"condofacil_backend/pkg/cron"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/demo"
	"condofacil_backend/pkg/worker"
)

// Scheduled-job endpoints. Each one runs the same sweep the in-process cron
// runs, so an external scheduler (with CRON_SECRET) can drive them instead.

func RunDemoCleanup(c *fiber.Ctx) error {
	removed, err := demo.CleanupExpiredDemos(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"removed": removed})
}

func RunHardDeleteSweep(c *fiber.Ctx) error {
	removed, err := cron.HardDeleteSweep(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"removed": removed})
}

func RunTrialExpiryCheck(c *fiber.Ctx) error {
	warned, err := cron.CheckExpiringTrials(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"warned": warned})
}

func RunMaintenanceDue(c *fiber.Ctx) error {
	notified, err := cron.NotifyMaintenanceDue(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"notified": notified})
}

func RunPaymentReconciliation(c *fiber.Ctx) error {
	touched, err := cron.ReconcilePayments(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"touched": touched})
}

func RunNotificationDispatch(c *fiber.Ctx) error {
	sent, err := worker.DispatchPending(database.DB, worker.DispatchBatchSize, worker.EmailSender)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"sent": sent})
}
