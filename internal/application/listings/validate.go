package listings

import (
	"strings"
	"time"

	"casavia-backend/internal/domain"
)

// ImageInput is one image reference supplied by the client. The asset is
// assumed already uploaded to the remote store before the mutation call.
type ImageInput struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// ListingInput is the create/update request body. Every field is a pointer so
// update can distinguish "not supplied" from a zero value; Images nil means
// "leave the image set alone" while an empty slice means "remove all images".
type ListingInput struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	Price        *float64     `json:"price"`
	Location     *string      `json:"location"`
	Bedrooms     *int         `json:"bedrooms"`
	Bathrooms    *float64     `json:"bathrooms"`
	PropertyType *string      `json:"property_type"`
	Status       *string      `json:"status"`
	YearBuilt    *int         `json:"year_built"`
	LotSize      *float64     `json:"lot_size"`
	SquareFeet   *float64     `json:"square_feet"`
	Images       []ImageInput `json:"images"`
}

// Validate checks in against the listing schema and collects every failing
// field. With partial true (update) missing fields are fine and only supplied
// values are checked; with partial false (create) the required set must be
// present.
func Validate(in ListingInput, partial bool) *ValidationError {
	var issues []FieldError
	add := func(field, msg string) {
		issues = append(issues, FieldError{Field: field, Message: msg})
	}

	if in.Title == nil {
		if !partial {
			add("title", "is required")
		}
	} else if strings.TrimSpace(*in.Title) == "" {
		add("title", "must not be empty")
	}

	if in.Price == nil {
		if !partial {
			add("price", "is required")
		}
	} else if *in.Price < 0 {
		add("price", "must be zero or greater")
	}

	if in.Location == nil {
		if !partial {
			add("location", "is required")
		}
	} else if strings.TrimSpace(*in.Location) == "" {
		add("location", "must not be empty")
	}

	if in.Bedrooms == nil {
		if !partial {
			add("bedrooms", "is required")
		}
	} else if *in.Bedrooms < 0 {
		add("bedrooms", "must be zero or greater")
	}

	if in.Bathrooms == nil {
		if !partial {
			add("bathrooms", "is required")
		}
	} else if *in.Bathrooms < 0 {
		add("bathrooms", "must be zero or greater")
	}

	if in.PropertyType == nil {
		if !partial {
			add("property_type", "is required")
		}
	} else if !domain.ValidPropertyType(*in.PropertyType) {
		add("property_type", "must be one of house, apartment, condo, townhouse, land, commercial")
	}

	if in.Status != nil && !domain.ValidStatus(*in.Status) {
		add("status", "must be one of for_sale, sold, pending")
	}

	if in.YearBuilt != nil {
		if y := *in.YearBuilt; y < 1000 || y > time.Now().Year() {
			add("year_built", "must be between 1000 and the current year")
		}
	}

	if in.LotSize != nil && *in.LotSize < 0 {
		add("lot_size", "must be zero or greater")
	}

	if in.SquareFeet != nil && *in.SquareFeet < 0 {
		add("square_feet", "must be zero or greater")
	}

	for _, img := range in.Images {
		if img.PublicID == "" || img.URL == "" {
			add("images", "each image needs public_id and url")
			break
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
