package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
)

// HealthHandler — проверка живости сервиса.
type HealthHandler struct {
	backend string
}

// NewHealthHandler создаёт хэндлер. backend — выбранный KV бэкенд.
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Backend: h.backend,
	})
}
