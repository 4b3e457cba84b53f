package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingImage is one stored photograph of a listing. PublicID is the key of
// the backing object in the remote asset store; an image row must never
// reference an asset that no longer exists remotely. CreatedAt is the display
// ordering key.
type ListingImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	PublicID  string    `gorm:"column:public_id;not null" json:"public_id"`
	ImageURL  string    `gorm:"column:image_url;not null" json:"url"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

func (i *ListingImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
