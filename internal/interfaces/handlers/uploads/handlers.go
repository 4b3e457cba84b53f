package uploads

import (
	uploadsvc "casavia-backend/internal/application/uploads"
	"casavia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

// Sign POST /api/v1/admin/uploads/sign: signed-upload credentials so the
// admin browser can put an image into the asset store directly.
func (h *Handlers) Sign(c *fiber.Ctx) error {
	return response.Success(c, "Upload signature generated", h.Service.GetUploadSignature(), nil)
}
