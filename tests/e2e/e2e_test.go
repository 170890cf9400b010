package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"telecounsel/internal/config"
	"telecounsel/internal/database"
	"telecounsel/internal/domain"
	"telecounsel/internal/meeting"
	"telecounsel/internal/middleware"
	"telecounsel/internal/modules/appointment"
	"telecounsel/internal/modules/auth"
	"telecounsel/internal/modules/chat"
	"telecounsel/internal/modules/counselor"
	"telecounsel/internal/modules/earnings"
	jwtsvc "telecounsel/internal/pkg/jwt"
	"telecounsel/internal/pkg/lock"
	"telecounsel/internal/repository"
)

var meetLinkPattern = regexp.MustCompile(`^https://meet\.google\.com/[a-z]{3}[0-9]{4}[a-z]{3}$`)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	return setupTestSuiteWithZoom(t, config.ZoomConfig{Timeout: time.Second})
}

func setupTestSuiteWithZoom(t *testing.T, zoomCfg config.ZoomConfig) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	log := zap.NewNop()

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService, jwtService)

	counselorService := counselor.NewService(userRepo, appointmentRepo)
	counselorHandler := counselor.NewHandler(counselorService)

	zoomClient := meeting.NewZoomClient(zoomCfg, log)
	appointmentService := appointment.NewService(appointmentRepo, userRepo, zoomClient, lock.NewLocalLocker(), log)
	appointmentHandler := appointment.NewHandler(appointmentService)

	chatService := chat.NewService(appointmentRepo, messageRepo)
	chatHandler := chat.NewHandler(chatService)

	earningsService := earnings.NewService(appointmentRepo)
	earningsHandler := earnings.NewHandler(earningsService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		counselorHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(jwtService))
		{
			appointmentHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			earningsHandler.RegisterRoutes(protected)
		}
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w, nil
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

// registerAndLogin creates an account through the API and returns its token
// and user id.
func (s *E2ETestSuite) registerAndLogin(t *testing.T, body map[string]interface{}) (token string, userID int64) {
	w, err := s.makeRequest("POST", "/api/v1/auth/register", body, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	user := resp.Data["user"].(map[string]interface{})
	userID = int64(user["id"].(float64))

	loginBody := map[string]interface{}{
		"email":    body["email"],
		"password": body["password"],
	}
	w, err = s.makeRequest("POST", "/api/v1/auth/login", loginBody, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	resp = parseResponse(t, w)
	token = resp.Data["access_token"].(string)
	require.NotEmpty(t, token)

	return token, userID
}

func (s *E2ETestSuite) registerCounselor(t *testing.T, email string, rate float64) (string, int64) {
	return s.registerAndLogin(t, map[string]interface{}{
		"email":          email,
		"password":       "password123",
		"name":           "Dr. Aigerim Satpayeva",
		"role":           "counselor",
		"specialization": "anxiety",
		"hourly_rate":    rate,
		"bio":            "Licensed counselor.",
	})
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) (string, int64) {
	return s.registerAndLogin(t, map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     "Daniyar Omarov",
		"role":     "client",
	})
}

func (s *E2ETestSuite) createAppointment(t *testing.T, clientToken string, counselorID int64, sessionType string) map[string]interface{} {
	body := map[string]interface{}{
		"counselor_id": counselorID,
		"date":         time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		"time":         "14:00",
		"session_type": sessionType,
	}

	w, err := s.makeRequest("POST", "/api/v1/appointments", body, clientToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "appointment creation failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	return resp.Data["appointment"].(map[string]interface{})
}

// =============================================================================
// Flow 1: Registration and Authentication
// =============================================================================

func TestFlow1_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("POST /auth/register client", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "password123",
			"name":     "Daniyar Omarov",
			"role":     "client",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "client@test.com", user["email"])
		assert.Equal(t, "client", user["role"])
	})

	t.Run("POST /auth/register duplicate email", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "password123",
			"name":     "Someone Else",
			"role":     "client",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
	})

	t.Run("POST /auth/register counselor without rate", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "counselor@test.com",
			"password": "password123",
			"name":     "Dr. Lee",
			"role":     "counselor",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /auth/login and GET /auth/me", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "password123",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		token := resp.Data["access_token"].(string)
		require.NotEmpty(t, token)

		w, err = suite.makeRequest("GET", "/api/v1/auth/me", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		resp = parseResponse(t, w)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "client@test.com", user["email"])
	})

	t.Run("GET /appointments without token", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/appointments", nil, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// Flow 2: Booking and Session Lifecycle
// =============================================================================

func TestFlow2_BookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	counselorToken, counselorID := suite.registerCounselor(t, "counselor@test.com", 100)
	clientToken, _ := suite.registerClient(t, "client@test.com")

	t.Run("GET /counselors is public", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/counselors", nil, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		counselors := resp.Data["counselors"].([]interface{})
		require.Len(t, counselors, 1)
		first := counselors[0].(map[string]interface{})
		assert.Equal(t, "anxiety", first["specialization"])
		assert.Equal(t, 100.0, first["hourly_rate"])
	})

	var appointmentID string
	t.Run("POST /appointments snapshots the rate", func(t *testing.T) {
		appt := suite.createAppointment(t, clientToken, counselorID, "video")

		assert.Equal(t, "scheduled", appt["status"])
		assert.Equal(t, 100.0, appt["amount"])
		assert.Equal(t, "pending", appt["payment_status"])
		appointmentID = appt["id"].(string)
		require.NotEmpty(t, appointmentID)
	})

	t.Run("POST /appointments rejected for counselors", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/appointments", map[string]interface{}{
			"counselor_id": counselorID,
			"date":         "2026-09-10",
			"time":         "10:00",
			"session_type": "video",
		}, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	var meetingLink string
	t.Run("POST /appointments/:id/create-meeting", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-meeting", appointmentID), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		meetingLink = m["meeting_link"].(string)
		assert.Regexp(t, meetLinkPattern, meetingLink)
		assert.Equal(t, "meet", m["provider"])
		assert.Equal(t, "confirmed", m["status"])
	})

	t.Run("create-meeting is idempotent", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-meeting", appointmentID), nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		assert.Equal(t, meetingLink, m["meeting_link"])
	})

	t.Run("create-meeting forbidden for strangers", func(t *testing.T) {
		strangerToken, _ := suite.registerClient(t, "stranger@test.com")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-meeting", appointmentID), nil, strangerToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /appointments/:id/start-session", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/start-session", appointmentID), nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		appt := resp.Data["appointment"].(map[string]interface{})
		assert.Equal(t, "in-progress", appt["status"])
		assert.NotEmpty(t, appt["session_start_time"])
	})

	t.Run("POST /appointments/:id/end-session", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/end-session", appointmentID), nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		appt := resp.Data["appointment"].(map[string]interface{})
		assert.Equal(t, "completed", appt["status"])

		start, err := time.Parse(time.RFC3339, appt["session_start_time"].(string))
		require.NoError(t, err)
		end, err := time.Parse(time.RFC3339, appt["session_end_time"].(string))
		require.NoError(t, err)
		assert.False(t, end.Before(start))
	})

	t.Run("end-session rejected once completed", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/end-session", appointmentID), nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
	})

	t.Run("PATCH /appointments/:id/notes as counselor", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/appointments/%s/notes", appointmentID), map[string]interface{}{
			"session_notes": "Discussed coping strategies, follow up in two weeks.",
		}, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("PATCH /appointments/:id/feedback as client", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/appointments/%s/feedback", appointmentID), map[string]interface{}{
			"rating":   5,
			"feedback": "Very helpful session.",
		}, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		appt := resp.Data["appointment"].(map[string]interface{})
		assert.Equal(t, 5.0, appt["rating"])
	})

	t.Run("GET /appointments joins the counterpart", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/appointments", nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		appointments := resp.Data["appointments"].([]interface{})
		require.Len(t, appointments, 1)
		first := appointments[0].(map[string]interface{})
		counselorView := first["counselor"].(map[string]interface{})
		assert.Equal(t, "Dr. Aigerim Satpayeva", counselorView["name"])
	})

	t.Run("GET /counselors/:id reports the average rating", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/counselors/%d", counselorID), nil, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		view := resp.Data["counselor"].(map[string]interface{})
		assert.Equal(t, 5.0, view["average_rating"])
	})
}

// =============================================================================
// Flow 3: Cancellation Rules
// =============================================================================

func TestFlow3_CancellationRules(t *testing.T) {
	suite := setupTestSuite(t)

	_, counselorID := suite.registerCounselor(t, "counselor@test.com", 80)
	clientToken, _ := suite.registerClient(t, "client@test.com")

	appt := suite.createAppointment(t, clientToken, counselorID, "chat")
	id := appt["id"].(string)

	t.Run("PATCH status to cancelled", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/appointments/%s/status", id), map[string]interface{}{
			"status": "cancelled",
		}, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		updated := resp.Data["appointment"].(map[string]interface{})
		assert.Equal(t, "cancelled", updated["status"])
	})

	t.Run("cancelled appointments stay cancelled", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/appointments/%s/status", id), map[string]interface{}{
			"status": "confirmed",
		}, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create-meeting works for any session type", func(t *testing.T) {
		chatAppt := suite.createAppointment(t, clientToken, counselorID, "chat")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-meeting", chatAppt["id"]), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		assert.Equal(t, "meet", m["provider"])
		assert.Regexp(t, meetLinkPattern, m["meeting_link"])
	})

	t.Run("create-zoom-meeting requires a video session", func(t *testing.T) {
		chatAppt := suite.createAppointment(t, clientToken, counselorID, "chat")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-zoom-meeting", chatAppt["id"]), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_SESSION_TYPE", resp.Error.Code)
	})

	t.Run("provisioning a cancelled appointment is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-meeting", id), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
	})

	t.Run("unknown appointment id is 404", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/appointments/not-a-uuid/create-meeting", nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// Flow 4: Zoom Provisioning and Fallback
// =============================================================================

func TestFlow4_ZoomProvisioning(t *testing.T) {
	t.Run("zoom outage falls back to a synthetic link", func(t *testing.T) {
		zoomAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer zoomAPI.Close()

		suite := setupTestSuiteWithZoom(t, config.ZoomConfig{
			Token:   "test-token",
			APIBase: zoomAPI.URL,
			Timeout: time.Second,
		})

		_, counselorID := suite.registerCounselor(t, "counselor@test.com", 100)
		clientToken, _ := suite.registerClient(t, "client@test.com")
		appt := suite.createAppointment(t, clientToken, counselorID, "video")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-zoom-meeting", appt["id"]), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code, "fallback must still respond with success")

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		assert.Equal(t, "fallback", m["provider"])
		assert.Regexp(t, meetLinkPattern, m["meeting_link"])
		assert.Equal(t, "confirmed", m["status"])
	})

	t.Run("zoom success uses the zoom join url", func(t *testing.T) {
		zoomAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":        81234567890,
				"join_url":  "https://zoom.us/j/81234567890",
				"start_url": "https://zoom.us/s/81234567890?zak=host",
			})
		}))
		defer zoomAPI.Close()

		suite := setupTestSuiteWithZoom(t, config.ZoomConfig{
			Token:   "test-token",
			APIBase: zoomAPI.URL,
			Timeout: time.Second,
		})

		_, counselorID := suite.registerCounselor(t, "counselor@test.com", 100)
		clientToken, _ := suite.registerClient(t, "client@test.com")
		appt := suite.createAppointment(t, clientToken, counselorID, "video")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-zoom-meeting", appt["id"]), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		assert.Equal(t, "zoom", m["provider"])
		assert.Equal(t, "https://zoom.us/j/81234567890", m["meeting_link"])
		assert.Equal(t, "81234567890", m["meeting_id"])
	})

	t.Run("no token provisions the fallback immediately", func(t *testing.T) {
		suite := setupTestSuite(t)

		_, counselorID := suite.registerCounselor(t, "counselor@test.com", 100)
		clientToken, _ := suite.registerClient(t, "client@test.com")
		appt := suite.createAppointment(t, clientToken, counselorID, "video")

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/create-zoom-meeting", appt["id"]), nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		m := resp.Data["meeting"].(map[string]interface{})
		assert.Equal(t, "fallback", m["provider"])
		assert.Regexp(t, meetLinkPattern, m["meeting_link"])
	})
}

// =============================================================================
// Flow 5: Chat
// =============================================================================

func TestFlow5_Chat(t *testing.T) {
	suite := setupTestSuite(t)

	counselorToken, counselorID := suite.registerCounselor(t, "counselor@test.com", 90)
	clientToken, _ := suite.registerClient(t, "client@test.com")
	strangerToken, _ := suite.registerClient(t, "stranger@test.com")

	appt := suite.createAppointment(t, clientToken, counselorID, "chat")
	id := appt["id"].(string)

	t.Run("POST /appointments/:id/messages", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/messages", id), map[string]interface{}{
			"body": "Hello, looking forward to our session.",
		}, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code)

		w, err = suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/messages", id), map[string]interface{}{
			"body": "Likewise, see you then.",
		}, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("GET /appointments/:id/messages oldest first", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/appointments/%s/messages", id), nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		messages := resp.Data["messages"].([]interface{})
		require.Len(t, messages, 2)
		first := messages[0].(map[string]interface{})
		assert.Equal(t, "Hello, looking forward to our session.", first["body"])
	})

	t.Run("strangers cannot read the thread", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/appointments/%s/messages", id), nil, strangerToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("blank messages are rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/appointments/%s/messages", id), map[string]interface{}{
			"body": "   ",
		}, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// Flow 6: Earnings
// =============================================================================

func TestFlow6_Earnings(t *testing.T) {
	suite := setupTestSuite(t)

	counselorToken, counselorID := suite.registerCounselor(t, "counselor@test.com", 100)
	clientToken, _ := suite.registerClient(t, "client@test.com")

	paid := suite.createAppointment(t, clientToken, counselorID, "video")
	suite.createAppointment(t, clientToken, counselorID, "chat")

	// Mark one appointment as paid directly; payment capture sits outside the
	// HTTP surface.
	err := suite.db.Model(&domain.Appointment{}).
		Where("id = ?", paid["id"]).
		Update("payment_status", domain.PaymentPaid).Error
	require.NoError(t, err)

	t.Run("GET /counselor/earnings", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/counselor/earnings", nil, counselorToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		earningsData := resp.Data["earnings"].(map[string]interface{})
		assert.Equal(t, 100.0, earningsData["total_paid"])
		assert.Equal(t, 100.0, earningsData["pending_amount"])
	})

	t.Run("clients cannot read earnings", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/counselor/earnings", nil, clientToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
