package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"portal/config"
	"portal/database"
	"portal/services"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewApp_RecoversFromHandlerPanic(t *testing.T) {
	cfg := &config.Config{
		JWTKey:             "test-secret",
		JWTTTL:             time.Hour,
		SaltRound:          bcrypt.MinCost,
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
	}
	svc := services.New(database.OpenTest(t), cfg, EventBus.New(), nil, nil)
	app := newApp(cfg, svc)
	app.Get("/boom", func(c *fiber.Ctx) error {
		var applicant *struct{ Email string }
		return c.SendString(applicant.Email)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
