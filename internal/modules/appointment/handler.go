package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"telecounsel/internal/middleware"
	"telecounsel/internal/pkg/lock"
	"telecounsel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.List)
	rg.POST("/appointments", middleware.ClientOnly(), h.Create)
	rg.POST("/appointments/:id/create-meeting", h.CreateMeeting)
	rg.POST("/appointments/:id/create-zoom-meeting", h.CreateZoomMeeting)
	rg.POST("/appointments/:id/start-session", h.StartSession)
	rg.POST("/appointments/:id/end-session", h.EndSession)
	rg.PATCH("/appointments/:id/status", h.UpdateStatus)
	rg.PATCH("/appointments/:id/notes", middleware.CounselorOnly(), h.UpdateNotes)
	rg.PATCH("/appointments/:id/feedback", middleware.ClientOnly(), h.SubmitFeedback)
}

func (h *Handler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load appointments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": views})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.renderError(c, err, "Failed to create appointment")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"appointment": view})
}

func (h *Handler) CreateMeeting(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	result, err := h.service.ProvisionMeeting(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err, "Failed to create meeting")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"meeting": result})
}

func (h *Handler) CreateZoomMeeting(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	result, err := h.service.ProvisionZoomMeeting(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err, "Failed to create meeting")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"meeting": result})
}

func (h *Handler) StartSession(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	a, err := h.service.StartSession(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err, "Failed to start session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) EndSession(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	a, err := h.service.EndSession(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err, "Failed to end session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), id, c.GetInt64("user_id"), req.Status)
	if err != nil {
		h.renderError(c, err, "Failed to update status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateSessionNotes(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.SessionNotes)
	if err != nil {
		h.renderError(c, err, "Failed to update session notes")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.SubmitFeedback(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		h.renderError(c, err, "Failed to submit feedback")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

// appointmentID parses the :id path param. Malformed ids read as not found
// since appointment ids are opaque.
func (h *Handler) appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case ErrCounselorNotFound:
		response.Error(c, http.StatusNotFound, "COUNSELOR_NOT_FOUND", "Counselor not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized for this appointment")
	case ErrInvalidSessionType:
		response.Error(c, http.StatusBadRequest, "INVALID_SESSION_TYPE", "Video meetings require a video session")
	case ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition not allowed")
	case ErrNotCompleted:
		response.Error(c, http.StatusConflict, "NOT_COMPLETED", "Appointment is not completed")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
	case lock.ErrNotAcquired:
		response.Error(c, http.StatusConflict, "PROVISIONING_IN_PROGRESS", "Another provisioning call is in flight")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
