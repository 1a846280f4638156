package models

import "github.com/google/uuid"

type Interest struct {
	BaseModel
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(30);not null"`
	Message    *string   `json:"message" gorm:"type:text"`
	PropertyID uuid.UUID `json:"propertyId" gorm:"type:uuid;not null;index"`
}
