package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing event types written by the mutation service.
const (
	EventCreated  = "CREATED"
	EventUpdated  = "UPDATED"
	EventDeleted  = "DELETED"
	EventFeatured = "FEATURED"
)

// ListingEvent is one audit-trail row for a listing mutation. Rows are kept
// after the listing itself is deleted, so listing_id carries no FK constraint.
type ListingEvent struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID  uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	ActorEmail *string        `gorm:"column:actor_email" json:"actor_email"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
