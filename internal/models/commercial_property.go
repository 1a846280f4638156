package models

import "github.com/google/uuid"

var commercialTypes = enumSet{"shop", "office", "showroom", "warehouse", "commercial"}

type CommercialProperty struct {
	BaseModel
	PropertyID      uuid.UUID `json:"propertyId" gorm:"type:uuid;uniqueIndex;not null"`
	PropertyType    string    `json:"propertyType" gorm:"type:varchar(30);not null"`
	CarpetArea      *float64  `json:"carpetArea" gorm:"not null"`
	BuildingDetails `gorm:"embedded"`
}

func (CommercialProperty) TableName() string { return "commercial_properties" }

func (*CommercialProperty) Purpose() PropertyPurpose { return PurposeCommercial }

func (c *CommercialProperty) SetPropertyID(id uuid.UUID) { c.PropertyID = id }

func (c *CommercialProperty) Validate() error {
	if c.CarpetArea == nil {
		return NewValidationError("carpetArea", "Carpet Area is required")
	}
	return firstError(
		checkRequiredEnum("propertyType", c.PropertyType, commercialTypes),
		c.BuildingDetails.validate(),
	)
}

func (c *CommercialProperty) Describe() []string {
	var out phrases
	out.add(c.areaPhrases(c.CarpetArea)...)
	out.add(humanize(text(c.FurnishingStatus)))
	out.add(c.landmarks()...)
	out.add(humanize(text(c.OwnershipType)))
	out.when(isYes(c.Negotiable), "price negotiable")
	out.add(humanize(c.PropertyType))
	out.when(isYes(c.RoadFacing), "road facing")
	out.when(isYes(c.LiftAvailable), "lift available")
	if isYes(c.ParkingAvailable) {
		if t := text(c.ParkingType); t != "" {
			out.add(t + " parking")
		} else {
			out.add("parking available")
		}
	}
	if isYes(c.WashroomAvailable) {
		if t := text(c.WashroomType); t != "" {
			out.add(t + " washroom")
		} else {
			out.add("washroom available")
		}
	}
	out.add(humanize(text(c.PropertyAge)))
	return out
}
