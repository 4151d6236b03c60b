package entitlement

import (
	"math"
	"time"

	"condofacil_backend/internal/model"
)

const (
	TrialStatusActive  = "active"
	TrialStatusWarning = "warning"
	TrialStatusExpired = "expired"
	TrialStatusPaid    = "paid"
)

// WarningThresholdDays is the window where the dashboard starts nagging.
const WarningThresholdDays = 3

type TrialInfo struct {
	IsTrial   bool   `json:"is_trial"`
	IsExpired bool   `json:"is_expired"`
	DaysLeft  int    `json:"days_left"`
	Status    string `json:"status"`
}

// TrialStatus derives the trial state of a condo at a given instant. Pure
// read: blocking expired condos is the trial gate middleware's job.
func TrialStatus(condo *model.Condo, now time.Time) TrialInfo {
	if condo.TrialEndsAt == nil {
		return TrialInfo{Status: TrialStatusPaid}
	}

	daysLeft := int(math.Ceil(condo.TrialEndsAt.Sub(now).Hours() / 24))

	info := TrialInfo{IsTrial: true, DaysLeft: daysLeft}
	switch {
	case daysLeft <= 0:
		// a trial ending exactly now is already over
		info.IsExpired = true
		info.Status = TrialStatusExpired
	case daysLeft <= WarningThresholdDays:
		info.Status = TrialStatusWarning
	default:
		info.Status = TrialStatusActive
	}
	return info
}
