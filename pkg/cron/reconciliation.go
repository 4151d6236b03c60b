package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
)

func InitReconciliationCron() {
	c := cron.New()

	_, err := c.AddFunc("30 5 * * *", func() {
		if _, err := ReconcilePayments(database.DB); err != nil {
			log.Printf("Error reconciling payments: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize reconciliation cron: %v", err)
		return
	}

	c.Start()
}

// ReconcilePayments marks pending charges past their due date as overdue and
// settles charges that already have a recorded payment but were left pending
// by a webhook that failed mid-flight.
func ReconcilePayments(db *gorm.DB) (int, error) {
	now := time.Now()
	touched := 0

	result := db.Model(&model.Charge{}).
		Where("status = ? AND due_date < ?", model.ChargeStatusPending, now).
		Update("status", model.ChargeStatusOverdue)
	if result.Error != nil {
		return touched, result.Error
	}
	touched += int(result.RowsAffected)

	// a payment row without a paid charge means the webhook handler died
	// between the two writes; finish the job here
	var orphaned []model.Payment
	err := db.Joins("JOIN charges ON charges.id = payments.charge_id").
		Where("charges.status IN ?", []string{model.ChargeStatusPending, model.ChargeStatusOverdue}).
		Find(&orphaned).Error
	if err != nil {
		return touched, err
	}

	for _, p := range orphaned {
		err := db.Model(&model.Charge{}).Where("id = ?", p.ChargeID).
			Updates(map[string]interface{}{
				"status":  model.ChargeStatusPaid,
				"paid_at": p.PaidAt,
			}).Error
		if err != nil {
			log.Printf("reconciliation: could not settle charge %d: %v", p.ChargeID, err)
			continue
		}
		touched++
	}

	if touched > 0 {
		log.Printf("payment reconciliation: touched %d charges", touched)
	}
	return touched, nil
}
