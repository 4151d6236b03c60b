package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/demo"
)

func InitDemoCleanupCron() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		if _, err := demo.CleanupExpiredDemos(database.DB); err != nil {
			log.Printf("Error cleaning up expired demos: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize demo cleanup cron: %v", err)
		return
	}

	c.Start()
}
