package services

import (
	"context"
	"testing"
	"time"

	"portal/apperrors"
	"portal/events"
	"portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var registered []events.UserRegistered
	require.NoError(t, f.bus.Subscribe(events.UserRegisteredTopic, func(e events.UserRegistered) {
		registered = append(registered, e)
	}))

	user := f.user(t, " Thandi@Example.com ")
	assert.Equal(t, "thandi@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.False(t, user.IsAdmin)
	require.Len(t, registered, 1)
	assert.Equal(t, user.ID, registered[0].UserID)

	_, err := f.svc.Auth.Register(ctx, Registration{FirstName: "T", LastName: "M", Email: "thandi@example.com", Password: "another1"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	admin := f.user(t, "admin@portal.test")
	assert.True(t, admin.IsAdmin)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered := f.user(t, "thandi@example.com")

	user, err := f.svc.Auth.Login(ctx, "THANDI@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = f.svc.Auth.Login(ctx, "thandi@example.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	_, err = f.svc.Auth.Login(ctx, "nobody@example.com", "secret123")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestLoginHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	other := f.user(t, "sipho@example.com")

	for _, device := range []string{"first", "second", "third"} {
		f.svc.Auth.RecordLogin(ctx, user.ID, LoginSource{IPAddress: "10.0.0.1", Device: device})
		time.Sleep(time.Millisecond)
	}
	f.svc.Auth.RecordLogin(ctx, other.ID, LoginSource{IPAddress: "10.0.0.2", Device: "other"})

	history, err := f.svc.Auth.LoginHistory(ctx, user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), history.Total)
	assert.Equal(t, 2, history.TotalPages)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "third", history.Items[0].Device)
	assert.Equal(t, "10.0.0.1", history.Items[0].IPAddress)

	require.NoError(t, f.svc.Users.Delete(ctx, user.ID))
	var remaining int64
	require.NoError(t, f.db.Model(&models.LoginRecord{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
