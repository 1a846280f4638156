package models

import "github.com/google/uuid"

var saleTypes = enumSet{
	"flat", "independent-house", "builder-floor", "villa",
	"shop", "office", "showroom", "warehouse", "commercial",
}

type SaleProperty struct {
	BaseModel
	PropertyID      uuid.UUID `json:"propertyId" gorm:"type:uuid;uniqueIndex;not null"`
	PropertyType    string    `json:"propertyType" gorm:"type:varchar(30);not null"`
	CarpetArea      *float64  `json:"carpetArea" gorm:"not null"`
	BuildingDetails `gorm:"embedded"`
}

func (SaleProperty) TableName() string { return "sale_properties" }

func (*SaleProperty) Purpose() PropertyPurpose { return PurposeSale }

func (s *SaleProperty) SetPropertyID(id uuid.UUID) { s.PropertyID = id }

func (s *SaleProperty) Validate() error {
	if s.CarpetArea == nil {
		return NewValidationError("carpetArea", "Carpet Area is required")
	}
	return firstError(
		checkRequiredEnum("propertyType", s.PropertyType, saleTypes),
		s.BuildingDetails.validate(),
	)
}

func (s *SaleProperty) Describe() []string {
	var out phrases
	out.add(s.areaPhrases(s.CarpetArea)...)
	out.add(humanize(s.PropertyType))
	out.add(humanize(text(s.FurnishingStatus)))
	out.when(isYes(s.LiftAvailable), "lift available")
	out.when(isYes(s.ParkingAvailable), "parking available")
	out.when(isYes(s.RoadFacing), "road facing")
	out.when(isYes(s.WashroomAvailable), "washroom available")
	out.when(isYes(s.Negotiable), "price negotiable")
	out.add(humanize(text(s.OwnershipType)))
	out.add(s.landmarks()...)
	return out
}
