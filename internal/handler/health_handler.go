package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Home godoc
// @Summary  API root
// @Tags     Health
// @Produce  json
// @Success  200 {object} Response
// @Router   /api [get]
func (h *HealthHandler) Home(c *gin.Context) {
	respond(c, http.StatusOK, "OK", nil)
}

// Health godoc
// @Summary  Store health
// @Tags     Health
// @Produce  json
// @Success  200 {object} Response
// @Failure  503 {object} Response
// @Router   /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		respond(c, http.StatusServiceUnavailable, "Store unavailable", gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusOK, "OK", gin.H{"status": "up"})
}
