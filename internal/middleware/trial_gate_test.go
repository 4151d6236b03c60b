package middleware_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/middleware"
	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/utils/jwt"
)

func setupGateApp(t *testing.T, condo model.Condo) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Condo{}))
	require.NoError(t, db.Create(&condo).Error)
	database.DB = db

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Claims{UserID: 1, CondoID: condo.ID, Role: model.RoleSindico})
		return c.Next()
	})
	app.Get("/protected", middleware.TrialGate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestTrialGateAllowsActiveTrial(t *testing.T) {
	end := time.Now().AddDate(0, 0, 10)
	app := setupGateApp(t, model.Condo{
		Name: "Ativo", Slug: "ativo", TrialEndsAt: &end,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTrialGateAllowsPaidCondo(t *testing.T) {
	app := setupGateApp(t, model.Condo{Name: "Pago", Slug: "pago"})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTrialGateBlocksExpiredTrial(t *testing.T) {
	end := time.Now().AddDate(0, 0, -1)
	app := setupGateApp(t, model.Condo{
		Name: "Expirado", Slug: "expirado", TrialEndsAt: &end,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, true, out["trial_expired"])
}
