package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spicehut/storefront/internal/dto"
)

// Pinger is what the health check needs from the backing store.
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	backing Pinger
}

func NewHealthHandler(backing Pinger) *HealthHandler {
	return &HealthHandler{backing: backing}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.backing == nil {
		dbStatus = "in-memory"
	} else if err := h.backing.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
