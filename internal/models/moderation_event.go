package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationEvent records one status transition. Rows are never updated.
type ModerationEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID      `json:"propertyId" gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID      `json:"actorId" gorm:"type:uuid;not null;index"`
	Actor      *User          `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
	FromStatus PropertyStatus `json:"fromStatus" gorm:"type:varchar(20);not null"`
	ToStatus   PropertyStatus `json:"toStatus" gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"not null;index"`
}

func (e *ModerationEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (ModerationEvent) TableName() string {
	return "moderation_events"
}
