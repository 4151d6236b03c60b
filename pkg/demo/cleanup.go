package demo

import (
	"log"
	"time"

	"gorm.io/gorm"

	"condofacil_backend/internal/model"
)

// PurgeCondo removes a condo and every dependent row in one transaction.
// Postgres cascades would handle most of this, but doing the fan-out
// explicitly keeps the sweep portable and lets tests assert zero orphans.
// Also used by the LGPD hard-delete sweep.
func PurgeCondo(db *gorm.DB, condoID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var pollIDs []uint
		if err := tx.Model(&model.Poll{}).Where("condo_id = ?", condoID).
			Pluck("id", &pollIDs).Error; err != nil {
			return err
		}
		if len(pollIDs) > 0 {
			if err := tx.Where("poll_id IN ?", pollIDs).
				Delete(&model.Vote{}).Error; err != nil {
				return err
			}
		}

		var ticketIDs []uint
		if err := tx.Model(&model.SupportTicket{}).Where("condo_id = ?", condoID).
			Pluck("id", &ticketIDs).Error; err != nil {
			return err
		}
		if len(ticketIDs) > 0 {
			if err := tx.Where("ticket_id IN ?", ticketIDs).
				Delete(&model.TicketMessage{}).Error; err != nil {
				return err
			}
		}

		var chargeIDs []uint
		if err := tx.Model(&model.Charge{}).Where("condo_id = ?", condoID).
			Pluck("id", &chargeIDs).Error; err != nil {
			return err
		}
		if len(chargeIDs) > 0 {
			if err := tx.Where("charge_id IN ?", chargeIDs).
				Delete(&model.Payment{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&model.Poll{},
			&model.Assembly{},
			&model.SupportTicket{},
			&model.Charge{},
			&model.VisitorLog{},
			&model.Occurrence{},
			&model.Notice{},
			&model.MaintenanceTask{},
			&model.PendingNotification{},
			&model.Subscription{},
			&model.CondoFeature{},
			&model.FeatureActivationLog{},
			&model.DemoSession{},
			&model.User{},
			&model.Unit{},
		} {
			if err := tx.Unscoped().Where("condo_id = ?", condoID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&model.Condo{}, condoID).Error
	})
}

// CleanupExpiredDemos deletes every demo condo whose window has closed.
// Returns how many condos were removed.
func CleanupExpiredDemos(db *gorm.DB) (int, error) {
	var expired []model.Condo
	err := db.Where("is_demo = ? AND trial_ends_at < ?", true, time.Now()).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, condo := range expired {
		if err := PurgeCondo(db, condo.ID); err != nil {
			log.Printf("demo cleanup: could not purge condo %d: %v", condo.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("demo cleanup: removed %d expired demo condos", removed)
	}
	return removed, nil
}
