package counselor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"telecounsel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/counselors", h.List)
	rg.GET("/counselors/:id", h.Get)
}

func (h *Handler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load counselors")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"counselors": views})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Counselor not found")
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Counselor not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load counselor")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"counselor": view})
}
