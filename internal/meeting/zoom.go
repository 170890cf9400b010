package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"telecounsel/internal/config"
)

// ZoomClient creates instant meetings through the Zoom REST API using a
// static bearer credential from configuration.
type ZoomClient struct {
	cfg    config.ZoomConfig
	http   *http.Client
	logger *zap.Logger
}

func NewZoomClient(cfg config.ZoomConfig, logger *zap.Logger) *ZoomClient {
	return &ZoomClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Enabled reports whether a bearer token is configured. A missing token is
// valid configuration and means callers should fall back immediately.
func (z *ZoomClient) Enabled() bool {
	return z != nil && z.cfg.Enabled()
}

type zoomMeetingRequest struct {
	Topic    string       `json:"topic"`
	Type     int          `json:"type"` // 1 = instant meeting
	Duration int          `json:"duration"`
	Settings zoomSettings `json:"settings"`
}

type zoomSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	WaitingRoom      bool   `json:"waiting_room"`
	AutoRecording    string `json:"auto_recording"`
}

type zoomMeetingResponse struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
}

// CreateMeeting requests an instant meeting and returns its join and start
// URLs. Any transport, auth or validation failure comes back as an error; the
// caller decides whether to fall back.
func (z *ZoomClient) CreateMeeting(ctx context.Context, topic string, durationMinutes int) (Meeting, error) {
	if !z.Enabled() {
		return Meeting{}, fmt.Errorf("zoom: no token configured")
	}

	payload := zoomMeetingRequest{
		Topic:    topic,
		Type:     1,
		Duration: durationMinutes,
		Settings: zoomSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   true,
			WaitingRoom:      false,
			AutoRecording:    "none",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Meeting{}, fmt.Errorf("zoom: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.cfg.APIBase+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return Meeting{}, fmt.Errorf("zoom: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+z.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.http.Do(req)
	if err != nil {
		return Meeting{}, fmt.Errorf("zoom: create meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Meeting{}, fmt.Errorf("zoom: create meeting: status %d: %s", resp.StatusCode, string(detail))
	}

	var out zoomMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Meeting{}, fmt.Errorf("zoom: decode response: %w", err)
	}
	if out.JoinURL == "" {
		return Meeting{}, fmt.Errorf("zoom: response missing join_url")
	}

	z.logger.Info("zoom meeting created",
		zap.Int64("meeting_id", out.ID),
		zap.String("topic", topic),
	)

	return Meeting{
		MeetingID: strconv.FormatInt(out.ID, 10),
		JoinURL:   out.JoinURL,
		StartURL:  out.StartURL,
		Provider:  ProviderZoom,
	}, nil
}
