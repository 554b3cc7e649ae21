package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAlert(t *testing.T) {
	var got WebhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "stopreport")
	err := c.SendAlert(context.Background(), "CRITICAL", "run failed", map[string]interface{}{
		"feed":  "/tmp/feed",
		"dates": 3,
	})
	require.NoError(t, err)

	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, "CRITICAL: stopreport", e.Title)
	assert.Equal(t, "run failed", e.Description)
	assert.Equal(t, 0x8B0000, e.Color)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "dates", e.Fields[0].Name)
	assert.Equal(t, "3", e.Fields[0].Value)
}

func TestSendAlertStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "delaycollector").SendAlert(context.Background(), "ERROR", "x", nil)
	assert.Error(t, err)
}

func TestDisabledClient(t *testing.T) {
	c := NewClient("", "stopreport")
	assert.False(t, c.Enabled())
	assert.NoError(t, c.SendAlert(context.Background(), "CRITICAL", "ignored", nil))
}
