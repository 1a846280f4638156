package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Extension is the category-specific half of a listing. Each purpose has
// exactly one implementation stored in its own table.
type Extension interface {
	Purpose() PropertyPurpose
	Validate() error
	Describe() []string
	SetPropertyID(id uuid.UUID)
}

var (
	yesNo             = enumSet{"yes", "no"}
	ownershipTypes    = enumSet{"freehold", "leasehold", "power-of-attorney"}
	buildingFurnish   = enumSet{"unfurnished", "semi-furnished", "fully-furnished"}
	propertyAges      = enumSet{"new", "less-than-5-years", "5-10-years", "more-than-10-years"}
	buildingWashrooms = enumSet{"attached", "common"}
	parkingTypes      = enumSet{"dedicated", "shared"}
)

type enumSet []string

func (s enumSet) contains(v string) bool {
	for _, allowed := range s {
		if allowed == v {
			return true
		}
	}
	return false
}

func checkEnum(field string, value *string, allowed enumSet) error {
	if value == nil || *value == "" {
		return nil
	}
	if !allowed.contains(*value) {
		return NewValidationError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	}
	return nil
}

func checkRequiredEnum(field, value string, allowed enumSet) error {
	if value == "" {
		return NewValidationError(field, field+" is required")
	}
	return checkEnum(field, &value, allowed)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// BuildingDetails are the optional attributes shared by sale and
// commercial listings.
type BuildingDetails struct {
	SuperBuiltUpArea  *float64 `json:"superBuiltUpArea"`
	CurrentFloor      *string  `json:"currentFloor" gorm:"type:varchar(50)"`
	TotalFloors       *string  `json:"totalFloors" gorm:"type:varchar(50)"`
	LiftAvailable     *string  `json:"liftAvailable" gorm:"type:varchar(3)"`
	FurnishingStatus  *string  `json:"furnishingStatus" gorm:"type:varchar(30)"`
	PropertyAge       *string  `json:"propertyAge" gorm:"type:varchar(30)"`
	WashroomAvailable *string  `json:"washroomAvailable" gorm:"type:varchar(3)"`
	WashroomType      *string  `json:"washroomType" gorm:"type:varchar(20)"`
	ParkingAvailable  *string  `json:"parkingAvailable" gorm:"type:varchar(3)"`
	ParkingType       *string  `json:"parkingType" gorm:"type:varchar(20)"`
	RoadFacing        *string  `json:"roadFacing" gorm:"type:varchar(3)"`
	RoadWidth         *string  `json:"roadWidth" gorm:"type:varchar(50)"`
	Negotiable        *string  `json:"negotiable" gorm:"type:varchar(3)"`
	OwnershipType     *string  `json:"ownershipType" gorm:"type:varchar(30)"`
	NearbyLandmarks   *string  `json:"nearbyLandmarks" gorm:"type:text"`
}

func (b *BuildingDetails) validate() error {
	return firstError(
		checkEnum("liftAvailable", b.LiftAvailable, yesNo),
		checkEnum("furnishingStatus", b.FurnishingStatus, buildingFurnish),
		checkEnum("propertyAge", b.PropertyAge, propertyAges),
		checkEnum("washroomAvailable", b.WashroomAvailable, yesNo),
		checkEnum("washroomType", b.WashroomType, buildingWashrooms),
		checkEnum("parkingAvailable", b.ParkingAvailable, yesNo),
		checkEnum("parkingType", b.ParkingType, parkingTypes),
		checkEnum("roadFacing", b.RoadFacing, yesNo),
		checkEnum("negotiable", b.Negotiable, yesNo),
		checkEnum("ownershipType", b.OwnershipType, ownershipTypes),
	)
}

func (b *BuildingDetails) areaPhrases(carpetArea *float64) []string {
	var out []string
	if n := number(carpetArea); n != "" {
		out = append(out, n+" sqft carpet area")
	}
	if n := number(b.SuperBuiltUpArea); n != "" {
		out = append(out, n+" sqft super built-up")
	}
	current, total := text(b.CurrentFloor), text(b.TotalFloors)
	switch {
	case current != "" && total != "":
		out = append(out, current+" of "+total+" floors")
	case current != "":
		out = append(out, "Floor "+current)
	}
	return out
}

func (b *BuildingDetails) landmarks() []string {
	return splitTrimmed(text(b.NearbyLandmarks))
}

// phrase helpers

func humanize(v string) string {
	return strings.ReplaceAll(v, "-", " ")
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func isYes(p *string) bool {
	return p != nil && *p == "yes"
}

// number formats a float in its shortest form. Nil and zero yield "".
func number(p *float64) string {
	if p == nil || *p == 0 {
		return ""
	}
	return FormatNumber(*p)
}

func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func splitTrimmed(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func trimmedTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

type phrases []string

func (p *phrases) add(values ...string) {
	for _, v := range values {
		if v != "" {
			*p = append(*p, v)
		}
	}
}

func (p *phrases) when(cond bool, value string) {
	if cond {
		p.add(value)
	}
}
