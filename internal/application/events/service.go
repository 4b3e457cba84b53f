package events

import (
	"context"
	"fmt"

	"casavia-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reads the listing audit trail written by the mutation service.
type Service struct {
	DB *gorm.DB
}

// ListingTrail returns the audit events for one listing, newest first. Events
// survive listing deletion, so a trail may exist for a removed listing.
func (s *Service) ListingTrail(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	events := []domain.ListingEvent{}
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listing events: %v", err)
	}
	return events, nil
}
