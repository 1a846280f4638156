package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	rentalTypes     = enumSet{"room", "1bhk", "2bhk", "3bhk", "independent", "other"}
	rentalFurnish   = enumSet{"furnished", "semi-furnished", "unfurnished"}
	kitchenTypes    = enumSet{"attached", "shared"}
	rentalWashrooms = enumSet{"attached", "shared"}
)

type RentalProperty struct {
	BaseModel
	PropertyID       uuid.UUID                   `json:"propertyId" gorm:"type:uuid;uniqueIndex;not null"`
	PropertyType     string                      `json:"propertyType" gorm:"type:varchar(30);not null"`
	CustomType       *string                     `json:"customType" gorm:"type:varchar(100)"`
	SuitableFor      datatypes.JSONSlice[string] `json:"suitableFor"`
	FurnishingStatus *string                     `json:"furnishingStatus" gorm:"type:varchar(30)"`
	KitchenAvailable *string                     `json:"kitchenAvailable" gorm:"type:varchar(3)"`
	KitchenType      *string                     `json:"kitchenType" gorm:"type:varchar(20)"`
	WashroomType     *string                     `json:"washroomType" gorm:"type:varchar(20)"`
	Capacity         *int                        `json:"capacity" gorm:"not null"`
	Facilities       datatypes.JSONSlice[string] `json:"facilities"`
}

func (RentalProperty) TableName() string { return "rental_properties" }

func (*RentalProperty) Purpose() PropertyPurpose { return PurposeRental }

func (r *RentalProperty) SetPropertyID(id uuid.UUID) { r.PropertyID = id }

func (r *RentalProperty) Validate() error {
	if err := checkRequiredEnum("propertyType", r.PropertyType, rentalTypes); err != nil {
		return err
	}
	if r.PropertyType == "other" && text(r.CustomType) == "" {
		return NewValidationError("customType", "customType is required when propertyType is other")
	}
	if r.Capacity == nil {
		return NewValidationError("capacity", "Capacity is required")
	}
	if *r.Capacity < 0 {
		return NewValidationError("capacity", "Capacity must not be negative")
	}
	return firstError(
		checkEnum("furnishingStatus", r.FurnishingStatus, rentalFurnish),
		checkEnum("kitchenAvailable", r.KitchenAvailable, yesNo),
		checkEnum("kitchenType", r.KitchenType, kitchenTypes),
		checkEnum("washroomType", r.WashroomType, rentalWashrooms),
	)
}

func (r *RentalProperty) Describe() []string {
	var out phrases
	if r.Capacity != nil && *r.Capacity != 0 {
		out.add("Capacity: " + FormatNumber(float64(*r.Capacity)) + " Persons")
	}
	out.add(trimmedTags(r.Facilities)...)
	out.add(humanize(text(r.FurnishingStatus)))
	if isYes(r.KitchenAvailable) {
		if t := text(r.KitchenType); t != "" {
			out.add(t + " kitchen")
		} else {
			out.add("kitchen available")
		}
	}
	if t := text(r.WashroomType); t != "" {
		out.add(t + " washroom")
	}
	out.add(humanize(r.PropertyType))
	out.add(trimmedTags(r.SuitableFor)...)
	return out
}
