package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/entitlement"
)

func TestTrialStatusPaidWhenNoTrialEnd(t *testing.T) {
	condo := &model.Condo{}

	info := entitlement.TrialStatus(condo, time.Now())
	assert.False(t, info.IsTrial)
	assert.False(t, info.IsExpired)
	assert.Equal(t, entitlement.TrialStatusPaid, info.Status)
}

func TestTrialStatusActive(t *testing.T) {
	now := time.Now()
	end := now.AddDate(0, 0, 10)
	condo := &model.Condo{TrialEndsAt: &end}

	info := entitlement.TrialStatus(condo, now)
	assert.True(t, info.IsTrial)
	assert.False(t, info.IsExpired)
	assert.Equal(t, entitlement.TrialStatusActive, info.Status)
	assert.Equal(t, 10, info.DaysLeft)
}

func TestTrialStatusWarningWindow(t *testing.T) {
	now := time.Now()
	end := now.Add(48 * time.Hour)
	condo := &model.Condo{TrialEndsAt: &end}

	info := entitlement.TrialStatus(condo, now)
	assert.Equal(t, entitlement.TrialStatusWarning, info.Status)
	assert.Equal(t, 2, info.DaysLeft)
}

func TestTrialEndingExactlyNowIsExpired(t *testing.T) {
	now := time.Now()
	end := now
	condo := &model.Condo{TrialEndsAt: &end}

	info := entitlement.TrialStatus(condo, now)
	assert.True(t, info.IsExpired)
	assert.Equal(t, entitlement.TrialStatusExpired, info.Status)
}

func TestTrialStatusExpiredInThePast(t *testing.T) {
	now := time.Now()
	end := now.AddDate(0, 0, -5)
	condo := &model.Condo{TrialEndsAt: &end}

	info := entitlement.TrialStatus(condo, now)
	assert.True(t, info.IsExpired)
	assert.Equal(t, entitlement.TrialStatusExpired, info.Status)
}

func TestTrialDaysLeftRoundsUp(t *testing.T) {
	now := time.Now()
	end := now.Add(36 * time.Hour) // a day and a half left counts as 2 days
	condo := &model.Condo{TrialEndsAt: &end}

	info := entitlement.TrialStatus(condo, now)
	assert.Equal(t, 2, info.DaysLeft)
	assert.Equal(t, entitlement.TrialStatusWarning, info.Status)
}
