package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property type values accepted for Listing.PropertyType.
const (
	PropertyHouse      = "house"
	PropertyApartment  = "apartment"
	PropertyCondo      = "condo"
	PropertyTownhouse  = "townhouse"
	PropertyLand       = "land"
	PropertyCommercial = "commercial"
)

// Listing status values.
const (
	StatusForSale = "for_sale"
	StatusSold    = "sold"
	StatusPending = "pending"
)

// ValidPropertyType reports whether t is one of the accepted property types.
func ValidPropertyType(t string) bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyCondo, PropertyTownhouse, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the accepted listing statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusForSale, StatusSold, StatusPending:
		return true
	}
	return false
}

// Listing is a property-for-sale record. Slug is unique across all listings;
// it is derived from the title at create time and regenerated only when the
// title changes.
type Listing struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Slug         string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Description  *string   `gorm:"column:description" json:"description"`
	Price        float64   `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Location     string    `gorm:"column:location;not null" json:"location"`
	Bedrooms     int       `gorm:"column:bedrooms;not null" json:"bedrooms"`
	Bathrooms    float64   `gorm:"column:bathrooms;type:decimal(4,1);not null" json:"bathrooms"`
	PropertyType string    `gorm:"column:property_type;type:varchar(20);not null" json:"property_type"`
	Status       string    `gorm:"column:status;type:varchar(20);default:'for_sale'" json:"status"`
	YearBuilt    *int      `gorm:"column:year_built" json:"year_built"`
	LotSize      *float64  `gorm:"column:lot_size;type:decimal(12,2)" json:"lot_size"`
	SquareFeet   *float64  `gorm:"column:square_feet;type:decimal(12,2)" json:"square_feet"`
	Featured     bool      `gorm:"column:featured;default:false" json:"featured"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
