package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/observability"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Pinger
	redis       Pinger
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance. Nil pingers are skipped.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis, metrics: metrics}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"service":   h.serviceName,
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			depStatus[name] = "unavailable"
			ready = false
			return
		}
		depStatus[name] = "ok"
	}
	check("postgres", h.postgres)
	check("redis", h.redis)

	if ready {
		return c.JSON(fiber.Map{
			"success":      true,
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success":      false,
		"error":        "one or more dependencies unavailable",
		"code":         "DEPENDENCY_UNAVAILABLE",
		"dependencies": depStatus,
	})
}

// Metrics returns the in-memory request counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
