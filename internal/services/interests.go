package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/pkg/logger"
	"gorm.io/gorm"
)

type InterestService struct {
	DB *gorm.DB
}

func NewInterestService(db *gorm.DB) *InterestService {
	return &InterestService{DB: db}
}

type InterestInput struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Message    *string `json:"message"`
	PropertyID string  `json:"propertyId"`
}

// Create records a visitor's interest in a listing. No account is needed.
func (s *InterestService) Create(ctx context.Context, in InterestInput) (*models.Interest, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	rawID := strings.TrimSpace(in.PropertyID)

	switch {
	case name == "":
		return nil, models.NewValidationError("name", "Name is required")
	case phone == "":
		return nil, models.NewValidationError("phone", "Phone number is required")
	case rawID == "":
		return nil, models.NewValidationError("propertyId", "Property ID is required")
	}

	propertyID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrNotFound
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Property{}).Where("id = ?", propertyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var message *string
	if in.Message != nil {
		if m := strings.TrimSpace(*in.Message); m != "" {
			message = &m
		}
	}

	interest := models.Interest{
		Name:       name,
		Phone:      phone,
		Message:    message,
		PropertyID: propertyID,
	}
	if err := s.DB.WithContext(ctx).Create(&interest).Error; err != nil {
		return nil, err
	}

	logger.Info("interest_created", map[string]interface{}{
		"interest_id": interest.ID.String(),
		"property_id": propertyID.String(),
	})
	return &interest, nil
}

// ListForProperty returns the leads of a property owned by ownerID, newest
// first.
func (s *InterestService) ListForProperty(ctx context.Context, propertyID, ownerID uuid.UUID) ([]models.Interest, error) {
	var property models.Property
	err := s.DB.WithContext(ctx).
		Select("id").
		Where("id = ? AND owner_id = ?", propertyID, ownerID).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	interests := []models.Interest{}
	err = s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&interests).Error
	return interests, err
}
