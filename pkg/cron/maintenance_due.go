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
)

func InitMaintenanceDueCron() {
	c := cron.New()

	_, err := c.AddFunc("0 8 * * *", func() {
		if _, err := NotifyMaintenanceDue(database.DB); err != nil {
			log.Printf("Error notifying maintenance due: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize maintenance due cron: %v", err)
		return
	}

	c.Start()
}

// NotifyMaintenanceDue queues one notification per pending maintenance task
// due within 7 days. NotifiedAt keeps the sweep from nagging twice.
func NotifyMaintenanceDue(db *gorm.DB) (int, error) {
	now := time.Now()
	windowEnd := now.AddDate(0, 0, 7)

	var tasks []model.MaintenanceTask
	err := db.Where("status = ? AND notified_at IS NULL AND due_date > ? AND due_date <= ?",
		"pending", now, windowEnd).
		Find(&tasks).Error
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, task := range tasks {
		var condo model.Condo
		if err := db.First(&condo, task.CondoID).Error; err != nil {
			continue
		}

		var sindico model.User
		if err := db.Where("condo_id = ? AND role = ?", task.CondoID, model.RoleSindico).
			First(&sindico).Error; err != nil {
			continue
		}

		condoID := task.CondoID
		userID := sindico.ID
		notification := model.PendingNotification{
			CondoID:     &condoID,
			UserID:      &userID,
			Channel:     "email",
			Recipient:   sindico.Email,
			Subject:     "Manutenção programada se aproximando",
			Body:        fmt.Sprintf("A tarefa %q vence em %s.", task.Title, task.DueDate.Format("02/01/2006")),
			ScheduledAt: now,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("Could not queue maintenance notification for task %d: %v", task.ID, err)
			continue
		}

		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendMaintenanceDueEmail(
				sindico.Email, condo.Name, task.Title, task.DueDate,
			); err != nil {
				log.Printf("Error sending maintenance email to %s: %v", sindico.Email, err)
			}
		}

		if err := db.Model(&model.MaintenanceTask{}).Where("id = ?", task.ID).
			Update("notified_at", now).Error; err != nil {
			log.Printf("Could not mark task %d as notified: %v", task.ID, err)
		}

		notified++
	}

	return notified, nil
}
