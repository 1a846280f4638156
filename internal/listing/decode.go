package listing

import (
	"fmt"
	"strings"

	"github.com/propmarket/backend/internal/models"
	"github.com/shopspring/decimal"
)

type variant struct {
	new  func() models.Extension
	bind func(b *binder, ext models.Extension)
}

var variants = map[models.PropertyPurpose]variant{
	models.PurposeSale: {
		new: func() models.Extension { return &models.SaleProperty{} },
		bind: func(b *binder, ext models.Extension) {
			s := ext.(*models.SaleProperty)
			b.requiredEnum(&s.PropertyType, "PropertyType", "propertyType")
			b.float(&s.CarpetArea, "CarpetArea", "carpetArea")
			bindBuilding(b, &s.BuildingDetails)
		},
	},
	models.PurposeCommercial: {
		new: func() models.Extension { return &models.CommercialProperty{} },
		bind: func(b *binder, ext models.Extension) {
			c := ext.(*models.CommercialProperty)
			b.requiredEnum(&c.PropertyType, "PropertyType", "propertyType")
			b.float(&c.CarpetArea, "CarpetArea", "carpetArea")
			bindBuilding(b, &c.BuildingDetails)
		},
	},
	models.PurposeRental: {
		new: func() models.Extension { return &models.RentalProperty{} },
		bind: func(b *binder, ext models.Extension) {
			r := ext.(*models.RentalProperty)
			b.requiredEnum(&r.PropertyType, "PropertyType", "propertyType")
			b.text(&r.CustomType, "CustomType", "customType")
			b.list(&r.SuitableFor, "SuitableFor", "suitableFor")
			b.enum(&r.FurnishingStatus, "FurnishingStatus", "furnishingStatus")
			b.enum(&r.KitchenAvailable, "KitchenAvailable", "kitchenAvailable")
			b.enum(&r.KitchenType, "KitchenType", "kitchenType")
			b.enum(&r.WashroomType, "WashroomType", "washroomType")
			b.whole(&r.Capacity, "Capacity", "capacity")
			b.list(&r.Facilities, "Facilities", "facilities", "amenities")
		},
	},
	models.PurposePlot: {
		new: func() models.Extension { return &models.PlotProperty{} },
		bind: func(b *binder, ext models.Extension) {
			p := ext.(*models.PlotProperty)
			b.requiredEnum(&p.PlotCategory, "PlotCategory", "plotCategory")
			b.requiredText(&p.PlotArea, "PlotArea", "plotArea")
			b.float(&p.Frontage, "Frontage", "frontage")
			b.float(&p.Length, "Length", "length")
			b.float(&p.Breadth, "Breadth", "breadth")
			b.enum(&p.FacingDirection, "FacingDirection", "facingDirection")
			b.enum(&p.PriceNegotiable, "PriceNegotiable", "negotiable")
			b.enum(&p.OwnershipType, "OwnershipType", "ownershipType")
			b.text(&p.RoadWidth, "RoadWidth", "roadWidth")
			b.list(&p.NearbyAmenities, "NearbyAmenities", "nearbyAmenities", "amenities")
		},
	},
}

func bindBuilding(b *binder, d *models.BuildingDetails) {
	b.float(&d.SuperBuiltUpArea, "SuperBuiltUpArea", "superBuiltUpArea")
	b.text(&d.CurrentFloor, "CurrentFloor", "currentFloor")
	b.text(&d.TotalFloors, "TotalFloors", "totalFloors")
	b.enum(&d.LiftAvailable, "LiftAvailable", "liftAvailable")
	b.enum(&d.FurnishingStatus, "FurnishingStatus", "furnishingStatus")
	b.enum(&d.PropertyAge, "PropertyAge", "propertyAge")
	b.enum(&d.WashroomAvailable, "WashroomAvailable", "washroomAvailable")
	b.enum(&d.WashroomType, "WashroomType", "washroomType")
	b.enum(&d.ParkingAvailable, "ParkingAvailable", "parkingAvailable")
	b.enum(&d.ParkingType, "ParkingType", "parkingType")
	b.enum(&d.RoadFacing, "RoadFacing", "roadFacing")
	b.text(&d.RoadWidth, "RoadWidth", "roadWidth")
	b.enum(&d.Negotiable, "Negotiable", "negotiable")
	b.enum(&d.OwnershipType, "OwnershipType", "ownershipType")
	b.joined(&d.NearbyLandmarks, "NearbyLandmarks", "nearbyLandmarks")
}

const purposeKey = "propertyCategory"

// ParsePurpose validates the category sent by the client.
func ParsePurpose(raw string) (models.PropertyPurpose, error) {
	p := models.PropertyPurpose(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", models.NewValidationError(purposeKey, "Invalid property category provided")
	}
	return p, nil
}

// Decode builds and validates the extension record for purpose.
func Decode(purpose models.PropertyPurpose, form Form) (models.Extension, error) {
	v, ok := variants[purpose]
	if !ok {
		return nil, models.NewValidationError(purposeKey, "Invalid property category provided")
	}

	ext := v.new()
	b := newBinder(form, false)
	v.bind(b, ext)
	if b.err != nil {
		return nil, b.err
	}
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	return ext, nil
}

// Patch applies the sent fields to an existing extension and returns the
// Go field names that changed. The record is validated as a whole afterwards.
func Patch(ext models.Extension, form Form) ([]string, error) {
	v, ok := variants[ext.Purpose()]
	if !ok {
		return nil, fmt.Errorf("no binder for purpose %q", ext.Purpose())
	}

	b := newBinder(form, true)
	v.bind(b, ext)
	if b.err != nil {
		return nil, b.err
	}
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	return b.touched, nil
}

// BaseFields are the category independent listing attributes.
type BaseFields struct {
	Purpose     models.PropertyPurpose
	Location    string
	Price       decimal.Decimal
	Description string
	Name        *string
	Mobile      *string
}

var descriptionKeys = []string{"description", "specialNotes", "additionalInfo"}

// DecodeBase reads the base listing fields for a new property.
func DecodeBase(form Form) (*BaseFields, error) {
	raw, _ := form.Value(purposeKey)
	purpose, err := ParsePurpose(raw)
	if err != nil {
		return nil, err
	}

	out := &BaseFields{Purpose: purpose}

	location, _ := form.Value("location")
	out.Location = strings.TrimSpace(location)
	if out.Location == "" {
		return nil, models.NewValidationError("location", "Location is required")
	}

	rawPrice, _ := form.Value("price")
	price, err := parsePrice(rawPrice)
	if err != nil {
		return nil, err
	}
	out.Price = price

	out.Description = firstNonEmpty(form, descriptionKeys...)

	b := newBinder(form, false)
	b.text(&out.Name, "Name", "propertyName", "name")
	b.text(&out.Mobile, "Mobile", "mobile")
	if b.err != nil {
		return nil, b.err
	}
	return out, nil
}

// PatchBase applies sent base fields to p and returns the changed Go field
// names. Purpose cannot change.
func PatchBase(p *models.Property, form Form) ([]string, error) {
	var touched []string

	if raw, ok := form.Value(purposeKey); ok && strings.TrimSpace(raw) != "" {
		purpose, err := ParsePurpose(raw)
		if err != nil {
			return nil, err
		}
		if purpose != p.Purpose {
			return nil, models.NewValidationError(purposeKey, "property category cannot be changed")
		}
	}

	if raw, ok := form.Value("location"); ok {
		location := strings.TrimSpace(raw)
		if location == "" {
			return nil, models.NewValidationError("location", "Location is required")
		}
		p.Location = location
		touched = append(touched, "Location")
	}

	if raw, ok := form.Value("price"); ok {
		raw = strings.TrimSpace(raw)
		if raw != "null" && raw != "undefined" {
			price, err := parsePrice(raw)
			if err != nil {
				return nil, err
			}
			p.Price = price
			touched = append(touched, "Price")
		}
	}

	for _, key := range descriptionKeys {
		if _, ok := form.Value(key); ok {
			p.Description = firstNonEmpty(form, descriptionKeys...)
			touched = append(touched, "Description")
			break
		}
	}

	b := newBinder(form, true)
	b.text(&p.Name, "Name", "propertyName", "name")
	b.text(&p.Mobile, "Mobile", "mobile")
	if b.err != nil {
		return nil, b.err
	}
	return append(touched, b.touched...), nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, models.NewValidationError("price", "Price is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.NewValidationError("price", "Price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, models.NewValidationError("price", "Price must not be negative")
	}
	return price, nil
}

func firstNonEmpty(form Form, keys ...string) string {
	for _, key := range keys {
		if v, ok := form.Value(key); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
