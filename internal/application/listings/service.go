package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"casavia-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetDeleter removes one asset from the remote image store. A failure is
// fatal to the enclosing mutation.
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, publicID string) error
}

// Service is the listing query and mutation layer. Every mutation runs as a
// single transaction against the store; remote asset deletions happen inside
// the mutation, before the matching local row deletes, so no image row ever
// outlives its remote asset. A remote deletion that succeeded before a later
// failure is not compensated (the asset store has no rollback).
type Service struct {
	DB     *gorm.DB
	Assets AssetDeleter
}

// Summary is one row of the public browse grid: listing columns plus the URL
// of its first image.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Price        float64   `json:"price"`
	Location     string    `json:"location"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	PropertyType string    `json:"property_type"`
	Status       string    `json:"status"`
	Featured     bool      `json:"featured"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Detail is a full listing with its ordered image set.
type Detail struct {
	domain.Listing
	Images []domain.ListingImage `json:"images"`
}

const summaryColumns = "listings.id, listings.title, listings.slug, listings.price, listings.location, " +
	"listings.bedrooms, listings.bathrooms, listings.property_type, listings.status, listings.featured, listings.created_at, " +
	"(SELECT image_url FROM listing_images WHERE listing_images.listing_id = listings.id ORDER BY created_at LIMIT 1) AS image_url"

const defaultBrowseLimit = 20
const defaultFeaturedLimit = 6

// Search returns listings matching the filters, newest first, each with a
// cover image URL. An empty filter set returns all listings.
func (s *Service) Search(ctx context.Context, f Filters, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	q := s.DB.WithContext(ctx).Model(&domain.Listing{}).Select(summaryColumns)
	if conds, args := f.Build(); len(conds) > 0 {
		q = q.Where(strings.Join(conds, " AND "), args...)
	}
	rows := []Summary{}
	if err := q.Order("listings.created_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %v", err)
	}
	return rows, nil
}

// Featured returns the newest featured listings for prominent display.
func (s *Service) Featured(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.Search(ctx, Filters{Featured: "true"}, limit)
}

// GetBySlug returns one listing with its images, ordered for display.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Detail, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return s.withImages(ctx, listing)
}

// AdminList returns every listing, newest first.
func (s *Service) AdminList(ctx context.Context) ([]domain.Listing, error) {
	listings := []domain.Listing{}
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %v", err)
	}
	return listings, nil
}

// AdminGet returns one listing by id with its images.
func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (*Detail, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return s.withImages(ctx, listing)
}

func (s *Service) withImages(ctx context.Context, listing domain.Listing) (*Detail, error) {
	images := []domain.ListingImage{}
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listing.ID).Order("created_at ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return &Detail{Listing: listing, Images: images}, nil
}

// Create validates in, allocates a unique slug and inserts the listing with
// its image rows and a CREATED audit event, all in one transaction.
func (s *Service) Create(ctx context.Context, actorEmail string, in ListingInput) (*domain.Listing, error) {
	if verr := Validate(in, false); verr != nil {
		return nil, verr
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	slug, err := uniqueSlug(tx, *in.Title)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	status := domain.StatusForSale
	if in.Status != nil {
		status = *in.Status
	}
	listing := &domain.Listing{
		Title:        *in.Title,
		Slug:         slug,
		Description:  in.Description,
		Price:        *in.Price,
		Location:     *in.Location,
		Bedrooms:     *in.Bedrooms,
		Bathrooms:    *in.Bathrooms,
		PropertyType: *in.PropertyType,
		Status:       status,
		YearBuilt:    in.YearBuilt,
		LotSize:      in.LotSize,
		SquareFeet:   in.SquareFeet,
	}
	if err := tx.Create(listing).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create listing: %v", err)
	}
	for _, img := range in.Images {
		if err := tx.Create(&domain.ListingImage{
			ListingID: listing.ID,
			PublicID:  img.PublicID,
			ImageURL:  img.URL,
		}).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to attach image: %v", err)
		}
	}
	if err := s.writeEvent(tx, listing.ID, domain.EventCreated, actorEmail, map[string]interface{}{
		"title":       listing.Title,
		"slug":        listing.Slug,
		"image_count": len(in.Images),
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to create listing: %v", err)
	}
	return listing, nil
}

// Update applies the supplied fields to the listing. Unspecified columns are
// never overwritten; a supplied title regenerates the slug. When Images is
// non-nil the persisted image set is reconciled against it: removed images are
// destroyed remotely first and then deleted locally, added references are
// inserted (their assets were uploaded out of band). Any failure, including a
// remote deletion failure, rolls back the whole update.
func (s *Service) Update(ctx context.Context, actorEmail string, id uuid.UUID, in ListingInput) (*domain.Listing, error) {
	if verr := Validate(in, true); verr != nil {
		return nil, verr
	}

	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	updates := map[string]interface{}{}
	if in.Title != nil {
		slug, err := uniqueSlug(tx, *in.Title)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		updates["title"] = *in.Title
		updates["slug"] = slug
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Bedrooms != nil {
		updates["bedrooms"] = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		updates["bathrooms"] = *in.Bathrooms
	}
	if in.PropertyType != nil {
		updates["property_type"] = *in.PropertyType
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.YearBuilt != nil {
		updates["year_built"] = *in.YearBuilt
	}
	if in.LotSize != nil {
		updates["lot_size"] = *in.LotSize
	}
	if in.SquareFeet != nil {
		updates["square_feet"] = *in.SquareFeet
	}
	updates["updated_at"] = time.Now()

	if err := tx.Model(&domain.Listing{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to update listing: %v", err)
	}

	added, removed := 0, 0
	if in.Images != nil {
		var err error
		added, removed, err = s.reconcileImages(ctx, tx, id, in.Images)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	fields := make([]string, 0, len(updates))
	for k := range updates {
		if k == "updated_at" {
			continue
		}
		fields = append(fields, k)
	}
	if err := s.writeEvent(tx, id, domain.EventUpdated, actorEmail, map[string]interface{}{
		"fields":         fields,
		"images_added":   added,
		"images_removed": removed,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to update listing: %v", err)
	}

	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// reconcileImages diffs the persisted image set against target by public id.
// Images leaving the set are destroyed remotely before their local row is
// deleted; images entering the set are inserted locally only.
func (s *Service) reconcileImages(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, target []ImageInput) (added, removed int, err error) {
	var current []domain.ListingImage
	if err := tx.Where("listing_id = ?", listingID).Find(&current).Error; err != nil {
		return 0, 0, fmt.Errorf("Failed to fetch images: %v", err)
	}

	currentIDs := make(map[string]bool, len(current))
	for _, img := range current {
		currentIDs[img.PublicID] = true
	}
	targetIDs := make(map[string]bool, len(target))
	for _, img := range target {
		targetIDs[img.PublicID] = true
	}

	for _, img := range current {
		if targetIDs[img.PublicID] {
			continue
		}
		if err := s.deleteRemote(ctx, img.PublicID); err != nil {
			return 0, 0, err
		}
		if err := tx.Where("listing_id = ? AND public_id = ?", listingID, img.PublicID).
			Delete(&domain.ListingImage{}).Error; err != nil {
			return 0, 0, fmt.Errorf("Failed to remove image: %v", err)
		}
		removed++
	}

	for _, img := range target {
		if currentIDs[img.PublicID] {
			continue
		}
		if err := tx.Create(&domain.ListingImage{
			ListingID: listingID,
			PublicID:  img.PublicID,
			ImageURL:  img.URL,
		}).Error; err != nil {
			return 0, 0, fmt.Errorf("Failed to attach image: %v", err)
		}
		added++
	}
	return added, removed, nil
}

// Delete destroys every remote asset of the listing and then removes the
// listing and its image rows in one transaction. The listing row is never
// removed if any remote deletion fails.
func (s *Service) Delete(ctx context.Context, actorEmail string, id uuid.UUID) error {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	var images []domain.ListingImage
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).Find(&images).Error; err != nil {
		return fmt.Errorf("Failed to fetch images: %v", err)
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, img := range images {
		if err := s.deleteRemote(ctx, img.PublicID); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Where("listing_id = ?", id).Delete(&domain.ListingImage{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("Failed to delete images: %v", err)
	}
	if err := tx.Where("id = ?", id).Delete(&domain.Listing{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("Failed to delete listing: %v", err)
	}
	if err := s.writeEvent(tx, id, domain.EventDeleted, actorEmail, map[string]interface{}{
		"title":       listing.Title,
		"slug":        listing.Slug,
		"image_count": len(images),
	}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("Failed to delete listing: %v", err)
	}
	return nil
}

// SetFeatured flips the featured flag used by prominent display surfaces.
func (s *Service) SetFeatured(ctx context.Context, actorEmail string, id uuid.UUID, featured bool) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&listing).Update("featured", featured).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to update listing: %v", err)
	}
	if err := s.writeEvent(tx, id, domain.EventFeatured, actorEmail, map[string]interface{}{
		"featured": featured,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to update listing: %v", err)
	}
	listing.Featured = featured
	return &listing, nil
}

func (s *Service) deleteRemote(ctx context.Context, publicID string) error {
	if s.Assets == nil {
		return &RemoteAssetError{PublicID: publicID, Err: ErrNoAssetGateway}
	}
	if err := s.Assets.DeleteAsset(ctx, publicID); err != nil {
		return &RemoteAssetError{PublicID: publicID, Err: err}
	}
	return nil
}

func (s *Service) writeEvent(tx *gorm.DB, listingID uuid.UUID, eventType, actorEmail string, data map[string]interface{}) error {
	eventDataBytes, _ := json.Marshal(data)
	var actor *string
	if actorEmail != "" {
		actor = &actorEmail
	}
	if err := tx.Create(&domain.ListingEvent{
		ListingID:  listingID,
		EventType:  eventType,
		EventData:  datatypes.JSON(eventDataBytes),
		ActorEmail: actor,
	}).Error; err != nil {
		return fmt.Errorf("Failed to record listing event: %v", err)
	}
	return nil
}
