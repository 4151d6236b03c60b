package controller_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/controller"
	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/payment"
)

// fakeGateway turns the request body into an Event without any wire protocol,
// so webhook handling is testable offline.
type fakeGateway struct{}

func (fakeGateway) Name() string { return "fake" }

func (fakeGateway) CreateSubscription(*model.User, *model.Condo, *model.Plan) (*payment.SubscriptionResult, error) {
	return nil, errors.New("not supported")
}

func (fakeGateway) CancelSubscription(string) error { return nil }

func (fakeGateway) ParseWebhook(payload []byte, _ string) (*payment.Event, error) {
	var event payment.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func setupWebhookApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Charge{},
		&model.Payment{},
		&model.PaymentWebhookLog{},
		&model.Subscription{},
	))
	database.DB = db

	payment.Register(fakeGateway{})

	app := fiber.New()
	app.Post("/api/webhook", controller.HandlePaymentWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, provider string, event payment.Event) (int, map[string]interface{}) {
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/webhook?provider="+provider, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestWebhookUnknownProvider(t *testing.T) {
	app := setupWebhookApp(t)

	status, _ := postWebhook(t, app, "pagamentos-xyz", payment.Event{Type: payment.EventPaymentSucceeded})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWebhookPaymentSettlesCharge(t *testing.T) {
	app := setupWebhookApp(t)

	charge := model.Charge{
		CondoID:     1,
		Description: "Taxa condominial",
		Amount:      350,
		DueDate:     time.Now(),
		Status:      model.ChargeStatusPending,
		ProviderRef: "ch_123",
	}
	require.NoError(t, database.DB.Create(&charge).Error)

	status, out := postWebhook(t, app, "fake", payment.Event{
		ID:        "evt_1",
		Type:      payment.EventPaymentSucceeded,
		ChargeRef: "ch_123",
		Amount:    350,
		PaidAt:    time.Now(),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["received"])

	var updated model.Charge
	require.NoError(t, database.DB.First(&updated, charge.ID).Error)
	assert.Equal(t, model.ChargeStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	var payments int64
	database.DB.Model(&model.Payment{}).Where("charge_id = ?", charge.ID).Count(&payments)
	assert.Equal(t, int64(1), payments)

	var webhookLog model.PaymentWebhookLog
	require.NoError(t, database.DB.Where("event_id = ?", "evt_1").First(&webhookLog).Error)
	assert.True(t, webhookLog.Processed)
	assert.Equal(t, "fake", webhookLog.Provider)
	assert.NotEmpty(t, webhookLog.Payload)
}

func TestWebhookUnknownChargeIsAcknowledgedWithoutMutation(t *testing.T) {
	app := setupWebhookApp(t)

	charge := model.Charge{
		CondoID:     1,
		Description: "Taxa condominial",
		Amount:      350,
		DueDate:     time.Now(),
		Status:      model.ChargeStatusPending,
		ProviderRef: "ch_123",
	}
	require.NoError(t, database.DB.Create(&charge).Error)

	status, out := postWebhook(t, app, "fake", payment.Event{
		ID:        "evt_2",
		Type:      payment.EventPaymentSucceeded,
		ChargeRef: "ch_que_nao_existe",
		Amount:    99,
		PaidAt:    time.Now(),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["received"])

	// nothing settled, nothing recorded
	var untouched model.Charge
	require.NoError(t, database.DB.First(&untouched, charge.ID).Error)
	assert.Equal(t, model.ChargeStatusPending, untouched.Status)

	var payments int64
	database.DB.Model(&model.Payment{}).Count(&payments)
	assert.Zero(t, payments)

	// the raw payload is still kept for audit
	var logs int64
	database.DB.Model(&model.PaymentWebhookLog{}).Where("event_id = ?", "evt_2").Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestWebhookSubscriptionCancelled(t *testing.T) {
	app := setupWebhookApp(t)

	sub := model.Subscription{
		CondoID:     1,
		StripeSubID: "sub_123",
		Status:      model.SubscriptionStatusActive,
	}
	require.NoError(t, database.DB.Create(&sub).Error)

	status, _ := postWebhook(t, app, "fake", payment.Event{
		ID:             "evt_3",
		Type:           payment.EventSubscriptionCancelled,
		SubscriptionID: "sub_123",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var updated model.Subscription
	require.NoError(t, database.DB.First(&updated, sub.ID).Error)
	assert.Equal(t, model.SubscriptionStatusCancelled, updated.Status)
}
