package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/demo"
)

// GraceWindowDays is the LGPD grace period between a deletion request and
// the irreversible hard delete.
const GraceWindowDays = 30

func InitHardDeleteCron() {
	c := cron.New()

	_, err := c.AddFunc("0 4 * * *", func() {
		if _, err := HardDeleteSweep(database.DB); err != nil {
			log.Printf("Error running hard delete sweep: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize hard delete cron: %v", err)
		return
	}

	c.Start()
}

// HardDeleteSweep purges cancelled condos whose 30-day grace window has
// passed since the deletion request.
func HardDeleteSweep(db *gorm.DB) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -GraceWindowDays)

	var condos []model.Condo
	err := db.Where("status = ? AND deletion_requested_at IS NOT NULL AND deletion_requested_at < ?",
		model.CondoStatusCancelled, cutoff).
		Find(&condos).Error
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, condo := range condos {
		if err := demo.PurgeCondo(db, condo.ID); err != nil {
			log.Printf("hard delete: could not purge condo %d: %v", condo.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("hard delete sweep: purged %d condos", removed)
	}
	return removed, nil
}
