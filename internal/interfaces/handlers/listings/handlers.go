package listings

import (
	"strconv"

	listsvc "casavia-backend/internal/application/listings"
	"casavia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves the public read side of the listings catalog.
type Handlers struct {
	Service *listsvc.Service
}

// Browse GET /api/v1/listings: filtered browse, newest first.
func (h *Handlers) Browse(c *fiber.Ctx) error {
	search := c.Query("q")
	if search == "" {
		search = c.Query("search")
	}
	f := listsvc.Filters{
		Search:       search,
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Bedrooms:     c.Query("bedrooms"),
		Bathrooms:    c.Query("bathrooms"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Featured:     c.Query("featured"),
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	data, err := h.Service.Search(c.Context(), f, limit)
	if err != nil {
		log.Error().Err(err).Msg("listings: browse failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", data, fiber.Map{"count": len(data)})
}

// Featured GET /api/v1/listings/featured: newest featured listings.
func (h *Handlers) Featured(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.Service.Featured(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("listings: featured failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Featured listings fetched successfully", data, nil)
}

// BySlug GET /api/v1/listings/slug/:slug: full listing with images.
func (h *Handlers) BySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.Error(c, "slug is required", 400, nil)
	}
	data, err := h.Service.GetBySlug(c.Context(), slug)
	if err != nil {
		if err == listsvc.ErrListingNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		log.Error().Err(err).Str("slug", slug).Msg("listings: fetch by slug failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing fetched successfully", data, nil)
}
