package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendgridMailer_RejectedSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad sender"}]}`))
	}))
	defer server.Close()

	mailer := NewSendgridMailer("key", "no-reply@portal.test", "Portal")
	mailer.client.BaseURL = server.URL

	err := mailer.Send(context.Background(), "thandi@example.com", "Hello", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendgrid send: status 400")
	assert.Contains(t, err.Error(), "bad sender")
}

func TestSendgridMailer_Accepted(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mailer := NewSendgridMailer("key", "no-reply@portal.test", "Portal")
	mailer.client.BaseURL = server.URL

	require.NoError(t, mailer.Send(context.Background(), "thandi@example.com", "Hello", "<p>hi</p>"))
	assert.Equal(t, "Bearer key", gotAuth)
}
