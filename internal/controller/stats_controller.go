package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

type DashboardStats struct {
	TotalUnits       int64            `json:"total_units"`
	TotalResidents   int64            `json:"total_residents"`
	OpenOccurrences  int64            `json:"open_occurrences"`
	OpenVisits       int64            `json:"open_visits"`
	PendingCharges   int64            `json:"pending_charges"`
	OverdueCharges   int64            `json:"overdue_charges"`
	OpenTickets      int64            `json:"open_tickets"`
	WeeklyVisits     []DailyVisitStat `json:"weekly_visits"`
	OccurrenceStats  []StatusCount    `json:"occurrence_stats"`
	CollectedAmount  float64          `json:"collected_amount"`
	OutstandingTotal float64          `json:"outstanding_total"`
}

type DailyVisitStat struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetDashboardStats aggregates the numbers the síndico dashboard shows.
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.DB

	var stats DashboardStats

	db.Model(&model.Unit{}).
		Where("condo_id = ?", claims.CondoID).
		Count(&stats.TotalUnits)

	db.Model(&model.User{}).
		Where("condo_id = ? AND role = ?", claims.CondoID, model.RoleMorador).
		Count(&stats.TotalResidents)

	db.Model(&model.Occurrence{}).
		Where("condo_id = ? AND status = ?", claims.CondoID, model.OccurrenceStatusOpen).
		Count(&stats.OpenOccurrences)

	db.Model(&model.VisitorLog{}).
		Where("condo_id = ? AND left_at IS NULL", claims.CondoID).
		Count(&stats.OpenVisits)

	db.Model(&model.Charge{}).
		Where("condo_id = ? AND status = ?", claims.CondoID, model.ChargeStatusPending).
		Count(&stats.PendingCharges)

	db.Model(&model.Charge{}).
		Where("condo_id = ? AND status = ?", claims.CondoID, model.ChargeStatusOverdue).
		Count(&stats.OverdueCharges)

	db.Model(&model.SupportTicket{}).
		Where("condo_id = ? AND status IN ?", claims.CondoID,
			[]string{model.TicketStatusOpen, model.TicketStatusInProgress}).
		Count(&stats.OpenTickets)

	// Últimos 7 dias de movimento na portaria
	var weekly []DailyVisitStat
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		var stat DailyVisitStat
		stat.Date = date.Format("2006-01-02")

		db.Model(&model.VisitorLog{}).
			Where("condo_id = ? AND DATE(entered_at) = ?",
				claims.CondoID, date.Format("2006-01-02")).
			Count(&stat.Visits)

		weekly = append(weekly, stat)
	}
	stats.WeeklyVisits = weekly

	var occStats []StatusCount
	db.Model(&model.Occurrence{}).
		Select("status, count(*) as count").
		Where("condo_id = ?", claims.CondoID).
		Group("status").
		Scan(&occStats)
	stats.OccurrenceStats = occStats

	db.Model(&model.Charge{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("condo_id = ? AND status = ?", claims.CondoID, model.ChargeStatusPaid).
		Scan(&stats.CollectedAmount)

	db.Model(&model.Charge{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("condo_id = ? AND status IN ?", claims.CondoID,
			[]string{model.ChargeStatusPending, model.ChargeStatusOverdue}).
		Scan(&stats.OutstandingTotal)

	return c.JSON(stats)
}
