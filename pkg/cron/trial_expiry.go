package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/email"
	"condofacil_backend/pkg/entitlement"
)

func InitTrialExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		if _, err := CheckExpiringTrials(database.DB); err != nil {
			log.Printf("Error checking expiring trials: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize trial expiry cron: %v", err)
		return
	}

	c.Start()
}

// CheckExpiringTrials warns síndicos whose trial enters the warning window
// and queues a notification for each. Returns how many condos were warned.
func CheckExpiringTrials(db *gorm.DB) (int, error) {
	now := time.Now()
	windowEnd := now.AddDate(0, 0, entitlement.WarningThresholdDays)

	var condos []model.Condo
	err := db.Where("is_demo = ? AND trial_ends_at IS NOT NULL AND trial_ends_at > ? AND trial_ends_at <= ?",
		false, now, windowEnd).
		Find(&condos).Error
	if err != nil {
		return 0, err
	}

	warned := 0
	for _, condo := range condos {
		info := entitlement.TrialStatus(&condo, now)
		if info.Status != entitlement.TrialStatusWarning {
			continue
		}

		var sindico model.User
		if err := db.Where("condo_id = ? AND role = ?", condo.ID, model.RoleSindico).
			First(&sindico).Error; err != nil {
			log.Printf("No síndico found for condo %d: %v", condo.ID, err)
			continue
		}

		condoID := condo.ID
		userID := sindico.ID
		notification := model.PendingNotification{
			CondoID:     &condoID,
			UserID:      &userID,
			Channel:     "email",
			Recipient:   sindico.Email,
			Subject:     "Seu período de teste está acabando",
			Body:        fmt.Sprintf("O período de teste do condomínio %s termina em %d dia(s).", condo.Name, info.DaysLeft),
			ScheduledAt: now,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("Could not queue trial warning for condo %d: %v", condo.ID, err)
			continue
		}

		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendTrialExpiryWarning(
				sindico.Email, condo.Name, info.DaysLeft, *condo.TrialEndsAt,
			); err != nil {
				log.Printf("Error sending trial warning to %s: %v", sindico.Email, err)
			}
		}

		warned++
	}

	if warned > 0 {
		log.Printf("Trial expiry check: warned %d condos", warned)
	}
	return warned, nil
}
