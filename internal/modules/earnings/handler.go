package earnings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telecounsel/internal/middleware"
	"telecounsel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/counselor/earnings", middleware.CounselorOnly(), h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load earnings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"earnings": summary})
}
