package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	plotCategories   = enumSet{"residential", "commercial", "agricultural"}
	facingDirections = enumSet{"north", "east", "west", "south"}
)

type PlotProperty struct {
	BaseModel
	PropertyID      uuid.UUID                   `json:"propertyId" gorm:"type:uuid;uniqueIndex;not null"`
	PlotCategory    string                      `json:"plotCategory" gorm:"type:varchar(20);not null"`
	PlotArea        string                      `json:"plotArea" gorm:"type:varchar(100);not null"`
	Frontage        *float64                    `json:"frontage"`
	Length          *float64                    `json:"length"`
	Breadth         *float64                    `json:"breadth"`
	FacingDirection *string                     `json:"facingDirection" gorm:"type:varchar(10)"`
	PriceNegotiable *string                     `json:"price_negotiable" gorm:"column:price_negotiable;type:varchar(3)"`
	OwnershipType   *string                     `json:"ownershipType" gorm:"type:varchar(30)"`
	RoadWidth       *string                     `json:"roadWidth" gorm:"type:varchar(50)"`
	NearbyAmenities datatypes.JSONSlice[string] `json:"nearbyAmenities"`
}

func (PlotProperty) TableName() string { return "plot_properties" }

func (*PlotProperty) Purpose() PropertyPurpose { return PurposePlot }

func (p *PlotProperty) SetPropertyID(id uuid.UUID) { p.PropertyID = id }

func (p *PlotProperty) Validate() error {
	if err := checkRequiredEnum("plotCategory", p.PlotCategory, plotCategories); err != nil {
		return err
	}
	if strings.TrimSpace(p.PlotArea) == "" {
		return NewValidationError("plotArea", "plotArea is required")
	}
	return firstError(
		checkEnum("facingDirection", p.FacingDirection, facingDirections),
		checkEnum("negotiable", p.PriceNegotiable, yesNo),
		checkEnum("ownershipType", p.OwnershipType, ownershipTypes),
	)
}

func (p *PlotProperty) Describe() []string {
	var out phrases
	if p.PlotArea != "" {
		out.add("Area: " + p.PlotArea)
	}
	if l, b := number(p.Length), number(p.Breadth); l != "" && b != "" {
		out.add(l + " x " + b + " ft")
	}
	if f := number(p.Frontage); f != "" {
		out.add(f + " ft frontage")
	}
	if w := text(p.RoadWidth); w != "" {
		out.add(w + " ft road width")
	}
	if d := text(p.FacingDirection); d != "" {
		out.add(strings.ToLower(d) + " facing")
	}
	out.add(trimmedTags(p.NearbyAmenities)...)
	out.add(humanize(text(p.OwnershipType)))
	out.add(humanize(p.PlotCategory))
	out.when(isYes(p.PriceNegotiable), "price negotiable")
	return out
}
