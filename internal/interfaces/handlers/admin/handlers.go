package admin

import (
	"errors"

	eventsvc "casavia-backend/internal/application/events"
	listsvc "casavia-backend/internal/application/listings"
	"casavia-backend/internal/middleware"
	"casavia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers serves the admin-panel listing CRUD and audit routes.
type Handlers struct {
	Listings *listsvc.Service
	Events   *eventsvc.Service
}

// List GET /api/v1/admin/listings: every listing, newest first.
func (h *Handlers) List(c *fiber.Ctx) error {
	data, err := h.Listings.AdminList(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin: list listings failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", data, nil)
}

// Create POST /api/v1/admin/listings: 201 with {id, slug}.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in listsvc.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	listing, err := h.Listings.Create(c.Context(), middleware.GetUserEmail(c), in)
	if err != nil {
		return h.mutationError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", fiber.Map{
		"id":   listing.ID,
		"slug": listing.Slug,
	}, nil)
}

// Get GET /api/v1/admin/listings/:id: listing with images.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid listing id", 400, nil)
	}
	data, err := h.Listings.AdminGet(c.Context(), id)
	if err != nil {
		return h.mutationError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", data, nil)
}

// Update PUT /api/v1/admin/listings/:id: partial update plus image reconciliation.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid listing id", 400, nil)
	}
	var in listsvc.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	listing, err := h.Listings.Update(c.Context(), middleware.GetUserEmail(c), id, in)
	if err != nil {
		return h.mutationError(c, err)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// Delete DELETE /api/v1/admin/listings/:id: 204 on success.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid listing id", 400, nil)
	}
	if err := h.Listings.Delete(c.Context(), middleware.GetUserEmail(c), id); err != nil {
		return h.mutationError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

// SetFeatured PATCH /api/v1/admin/listings/:id/featured.
func (h *Handlers) SetFeatured(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid listing id", 400, nil)
	}
	var req featuredRequest
	if err := c.BodyParser(&req); err != nil || req.Featured == nil {
		return response.Error(c, "featured is required", 400, nil)
	}
	listing, err := h.Listings.SetFeatured(c.Context(), middleware.GetUserEmail(c), id, *req.Featured)
	if err != nil {
		return h.mutationError(c, err)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// ListingEvents GET /api/v1/admin/listings/:id/events: audit trail, newest first.
func (h *Handlers) ListingEvents(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid listing id", 400, nil)
	}
	data, err := h.Events.ListingTrail(c.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("admin: listing events failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing events fetched successfully", data, nil)
}

func (h *Handlers) mutationError(c *fiber.Ctx, err error) error {
	if verr, ok := listsvc.AsValidationError(err); ok {
		return response.ValidationFailed(c, verr.Issues)
	}
	if errors.Is(err, listsvc.ErrListingNotFound) {
		return response.Error(c, err.Error(), 404, nil)
	}
	var raerr *listsvc.RemoteAssetError
	if errors.As(err, &raerr) {
		log.Error().Err(raerr).Str("public_id", raerr.PublicID).Msg("admin: remote asset deletion failed")
		return response.Error(c, "Failed to update remote assets", 500, nil)
	}
	log.Error().Err(err).Msg("admin: listing mutation failed")
	return response.Error(c, "Internal Server Error", 500, nil)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
