package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"telecounsel/internal/config"
)

func zoomTestConfig(base string) config.ZoomConfig {
	return config.ZoomConfig{
		AccountID: "acc",
		ClientID:  "client",
		Token:     "test-token",
		APIBase:   base,
		Timeout:   2 * time.Second,
	}
}

func TestZoomClient_CreateMeeting_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/me/meetings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        81234567890,
			"join_url":  "https://us05web.zoom.us/j/81234567890",
			"start_url": "https://us05web.zoom.us/s/81234567890?zak=host",
		})
	}))
	defer srv.Close()

	client := NewZoomClient(zoomTestConfig(srv.URL), zap.NewNop())

	m, err := client.CreateMeeting(context.Background(), "Counseling session", 50)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, float64(1), gotBody["type"]) // instant meeting
	assert.Equal(t, float64(50), gotBody["duration"])

	settings := gotBody["settings"].(map[string]any)
	assert.Equal(t, true, settings["join_before_host"])
	assert.Equal(t, "none", settings["auto_recording"])

	assert.Equal(t, "81234567890", m.MeetingID)
	assert.Equal(t, "https://us05web.zoom.us/j/81234567890", m.JoinURL)
	assert.Equal(t, "https://us05web.zoom.us/s/81234567890?zak=host", m.StartURL)
	assert.Equal(t, ProviderZoom, m.Provider)
}

func TestZoomClient_CreateMeeting_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":124,"message":"Invalid access token."}`))
	}))
	defer srv.Close()

	client := NewZoomClient(zoomTestConfig(srv.URL), zap.NewNop())

	_, err := client.CreateMeeting(context.Background(), "Counseling session", 50)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestZoomClient_CreateMeeting_MissingJoinURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewZoomClient(zoomTestConfig(srv.URL), zap.NewNop())

	_, err := client.CreateMeeting(context.Background(), "Counseling session", 50)
	assert.Error(t, err)
}

func TestZoomClient_DisabledWithoutToken(t *testing.T) {
	cfg := zoomTestConfig("http://127.0.0.1:1")
	cfg.Token = ""

	client := NewZoomClient(cfg, zap.NewNop())
	assert.False(t, client.Enabled())

	_, err := client.CreateMeeting(context.Background(), "Counseling session", 50)
	assert.Error(t, err)
}
