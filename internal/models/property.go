package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PropertyPurpose string

const (
	PurposeSale       PropertyPurpose = "sale"
	PurposeRental     PropertyPurpose = "rental"
	PurposeCommercial PropertyPurpose = "commercial"
	PurposePlot       PropertyPurpose = "plot"
)

func (p PropertyPurpose) Valid() bool {
	switch p {
	case PurposeSale, PurposeRental, PurposeCommercial, PurposePlot:
		return true
	}
	return false
}

type PropertyStatus string

const (
	StatusPending   PropertyStatus = "pending"
	StatusApproved  PropertyStatus = "approved"
	StatusCancelled PropertyStatus = "cancelled"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Property is the base listing row. Exactly one of the four extension
// pointers is populated when loaded, matching Purpose.
type Property struct {
	BaseModel
	OwnerID     uuid.UUID                   `json:"userId" gorm:"type:uuid;not null;index"`
	Owner       *User                       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Location    string                      `json:"location" gorm:"type:text;not null"`
	Images      datatypes.JSONSlice[string] `json:"images" gorm:"not null"`
	Purpose     PropertyPurpose             `json:"property_purpose" gorm:"column:property_purpose;type:varchar(20);not null;index"`
	Price       decimal.Decimal             `json:"price" gorm:"type:numeric(14,2);not null"`
	Description string                      `json:"description" gorm:"type:text;not null;default:''"`
	Name        *string                     `json:"name" gorm:"type:varchar(255)"`
	Status      PropertyStatus              `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Mobile      *string                     `json:"mobile" gorm:"type:varchar(20)"`

	Sale       *SaleProperty       `json:"SaleProperty,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Rental     *RentalProperty     `json:"RentalProperty,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Commercial *CommercialProperty `json:"CommercialProperty,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Plot       *PlotProperty       `json:"PlotProperty,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`

	Interests        []Interest        `json:"interests,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	ModerationEvents []ModerationEvent `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`

	Features []string `json:"features,omitempty" gorm:"-"`
}

// Extension returns the loaded category record, or nil when it was not
// preloaded.
func (p *Property) Extension() Extension {
	switch p.Purpose {
	case PurposeSale:
		if p.Sale != nil {
			return p.Sale
		}
	case PurposeRental:
		if p.Rental != nil {
			return p.Rental
		}
	case PurposeCommercial:
		if p.Commercial != nil {
			return p.Commercial
		}
	case PurposePlot:
		if p.Plot != nil {
			return p.Plot
		}
	}
	return nil
}

func (p *Property) AttachExtension(ext Extension) {
	switch e := ext.(type) {
	case *SaleProperty:
		p.Sale = e
	case *RentalProperty:
		p.Rental = e
	case *CommercialProperty:
		p.Commercial = e
	case *PlotProperty:
		p.Plot = e
	}
}
