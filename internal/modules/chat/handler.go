package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"telecounsel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments/:id/messages", h.Send)
	rg.GET("/appointments/:id/messages", h.List)
}

func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.Send(c.Request.Context(), id, c.GetInt64("user_id"), req.Body)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func (h *Handler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
		return
	}

	messages, err := h.service.List(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch err {
	case ErrAppointmentNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a party of this appointment")
	case ErrEmptyBody:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message body is empty")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Chat operation failed")
	}
}
