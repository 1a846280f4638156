package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/listing"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/internal/storage"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const existingImagesKey = "existingImages"

type PropertyService struct {
	DB    *gorm.DB
	Store storage.ImageStore
}

func NewPropertyService(db *gorm.DB, store storage.ImageStore) *PropertyService {
	return &PropertyService{DB: db, Store: store}
}

func preloadExtensions(db *gorm.DB) *gorm.DB {
	return db.Preload("Sale").Preload("Rental").Preload("Commercial").Preload("Plot")
}

func preloadInterests(db *gorm.DB) *gorm.DB {
	return db.Preload("Interests", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
}

func withFeatures(p *models.Property) {
	p.Features = listing.DeriveFeatures(p.Purpose, p.Extension())
}

// Create stores the images, then writes the base row and its category row
// in one transaction. Stored images are removed again when the
// transaction fails.
func (s *PropertyService) Create(ctx context.Context, ownerID uuid.UUID, form listing.Form, uploads []ImageUpload) (*models.Property, error) {
	base, err := listing.DecodeBase(form)
	if err != nil {
		return nil, err
	}
	ext, err := listing.Decode(base.Purpose, form)
	if err != nil {
		return nil, err
	}

	urls, err := uploadImages(ctx, s.Store, ownerID, uploads)
	if err != nil {
		return nil, err
	}

	property := models.Property{
		OwnerID:     ownerID,
		Location:    base.Location,
		Images:      urls,
		Purpose:     base.Purpose,
		Price:       base.Price,
		Description: base.Description,
		Name:        base.Name,
		Status:      models.StatusPending,
		Mobile:      base.Mobile,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&property).Error; err != nil {
			return fmt.Errorf("create property: %w", err)
		}
		ext.SetPropertyID(property.ID)
		if err := tx.Create(ext).Error; err != nil {
			return fmt.Errorf("create %s details: %w", base.Purpose, err)
		}
		return nil
	})
	if err != nil {
		removeImages(context.WithoutCancel(ctx), s.Store, urls)
		return nil, err
	}

	property.AttachExtension(ext)
	withFeatures(&property)

	logger.InfoWithUser(ownerID.String(), "property_created", map[string]interface{}{
		"property_id": property.ID.String(),
		"purpose":     string(property.Purpose),
		"images":      len(urls),
	})
	return &property, nil
}

type GetOptions struct {
	Owner     bool
	Interests bool
	// Public hides listings that are not approved unless Viewer owns the
	// listing or is an admin. Viewer may be nil.
	Public bool
	Viewer *models.User
}

func visibleTo(p *models.Property, viewer *models.User) bool {
	if p.Status == models.StatusApproved {
		return true
	}
	return viewer != nil && (viewer.IsAdmin || viewer.ID == p.OwnerID)
}

// Get loads one property with its category record and derived features.
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID, opts GetOptions) (*models.Property, error) {
	q := s.DB.WithContext(ctx).Scopes(preloadExtensions)
	if opts.Owner {
		q = q.Preload("Owner")
	}
	if opts.Interests {
		q = q.Scopes(preloadInterests)
	}

	var property models.Property
	if err := q.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if opts.Public && !visibleTo(&property, opts.Viewer) {
		return nil, ErrNotFound
	}
	withFeatures(&property)
	return &property, nil
}

type ListFilter struct {
	Status     *models.PropertyStatus
	OwnerID    *uuid.UUID
	Extensions bool
	Owner      bool
	Interests  bool
	Page       *utils.PaginationParams
}

// List returns matching properties newest first together with the total
// number of matches.
func (s *PropertyService) List(ctx context.Context, f ListFilter) ([]models.Property, int64, error) {
	filtered := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.Property{})
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		if f.OwnerID != nil {
			q = q.Where("owner_id = ?", *f.OwnerID)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := filtered()

	if f.Extensions {
		q = q.Scopes(preloadExtensions)
	}
	if f.Owner {
		q = q.Preload("Owner")
	}
	if f.Interests {
		q = q.Scopes(preloadInterests)
	}
	if f.Page != nil {
		q = utils.ApplyPagination(q, *f.Page)
	}

	properties := []models.Property{}
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	if f.Extensions {
		for i := range properties {
			withFeatures(&properties[i])
		}
	}
	return properties, total, nil
}

func (s *PropertyService) findOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := s.DB.WithContext(ctx).Scopes(preloadExtensions).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// mergeImages applies the image rule of an update. When the client sent a
// keep-list the result is the kept URLs followed by the new uploads,
// otherwise the new uploads are appended. Kept URLs must already belong to
// the property.
func mergeImages(current []string, form listing.Form, added []string) (result []string, dropped []string, changed bool) {
	if _, sent := form.Value(existingImagesKey); !sent {
		if len(added) == 0 {
			return current, nil, false
		}
		return append(append([]string{}, current...), added...), nil, true
	}

	owned := make(map[string]bool, len(current))
	for _, u := range current {
		owned[u] = true
	}
	kept := make(map[string]bool)
	result = []string{}
	for _, u := range listing.NormalizeTags(form.Values(existingImagesKey)) {
		if owned[u] && !kept[u] {
			kept[u] = true
			result = append(result, u)
		}
	}
	for _, u := range current {
		if !kept[u] {
			dropped = append(dropped, u)
		}
	}
	return append(result, added...), dropped, true
}

// Update patches an owned property. Absent fields stay as they are. The base
// row and the category row are written in one transaction.
func (s *PropertyService) Update(ctx context.Context, id, ownerID uuid.UUID, form listing.Form, uploads []ImageUpload) (*models.Property, error) {
	property, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	baseFields, err := listing.PatchBase(property, form)
	if err != nil {
		return nil, err
	}
	ext := property.Extension()
	if ext == nil {
		return nil, fmt.Errorf("property %s has no %s details", property.ID, property.Purpose)
	}
	extFields, err := listing.Patch(ext, form)
	if err != nil {
		return nil, err
	}

	added, err := uploadImages(ctx, s.Store, ownerID, uploads)
	if err != nil {
		return nil, err
	}
	images, dropped, changed := mergeImages(property.Images, form, added)
	if changed {
		property.Images = images
		baseFields = append(baseFields, "Images")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(baseFields) > 0 {
			if err := tx.Select(append(baseFields, "UpdatedAt")).Omit(clause.Associations).Updates(property).Error; err != nil {
				return fmt.Errorf("update property: %w", err)
			}
		}
		if len(extFields) > 0 {
			if err := tx.Select(append(extFields, "UpdatedAt")).Updates(ext).Error; err != nil {
				return fmt.Errorf("update %s details: %w", property.Purpose, err)
			}
		}
		return nil
	})
	if err != nil {
		removeImages(context.WithoutCancel(ctx), s.Store, added)
		return nil, err
	}

	removeImages(context.WithoutCancel(ctx), s.Store, dropped)
	withFeatures(property)

	logger.InfoWithUser(ownerID.String(), "property_updated", map[string]interface{}{
		"property_id":    property.ID.String(),
		"fields":         len(baseFields) + len(extFields),
		"images_added":   len(added),
		"images_removed": len(dropped),
	})
	return property, nil
}

// Delete removes an owned property with its category row, interests and
// moderation history in one transaction, then its stored images.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	property, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Interest{},
			&models.ModerationEvent{},
			&models.SaleProperty{},
			&models.RentalProperty{},
			&models.CommercialProperty{},
			&models.PlotProperty{},
		}
		for _, model := range dependents {
			if err := tx.Where("property_id = ?", property.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Property{}, "id = ?", property.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	removeImages(context.WithoutCancel(ctx), s.Store, property.Images)

	logger.InfoWithUser(ownerID.String(), "property_deleted", map[string]interface{}{
		"property_id": property.ID.String(),
	})
	return nil
}

// UpdateStatus moves a property through moderation and records the
// transition. An unknown status leaves the property unchanged.
func (s *PropertyService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actorID uuid.UUID) (*models.Property, error) {
	next := models.PropertyStatus(status)
	if !next.Valid() {
		return nil, models.NewValidationError("status", "Invalid status value")
	}

	var property models.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&property, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		previous := property.Status
		if previous == next {
			return nil
		}
		if err := tx.Model(&property).Update("status", next).Error; err != nil {
			return err
		}
		property.Status = next
		return tx.Create(&models.ModerationEvent{
			PropertyID: property.ID,
			ActorID:    actorID,
			FromStatus: previous,
			ToStatus:   next,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithUser(actorID.String(), "property_status_changed", map[string]interface{}{
		"property_id": property.ID.String(),
		"status":      string(next),
	})
	return &property, nil
}

// History lists the moderation events of a property, oldest first.
func (s *PropertyService) History(ctx context.Context, id uuid.UUID) ([]models.ModerationEvent, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	events := []models.ModerationEvent{}
	err := s.DB.WithContext(ctx).
		Preload("Actor").
		Where("property_id = ?", id).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
