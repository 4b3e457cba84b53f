package health

import (
	healthsvc "casavia-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the health endpoint.
type Handlers struct {
	Service *healthsvc.Service
}

// JSON GET /health/json: backend connectivity report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(h.Service.Check(c.Context()))
}
