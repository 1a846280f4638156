package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestBaseModel_BeforeCreate(t *testing.T) {
	t.Run("generates UUID if not set", func(t *testing.T) {
		model := &BaseModel{}
		if err := model.BeforeCreate(nil); err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if model.ID == uuid.Nil {
			t.Error("expected ID to be generated, got nil UUID")
		}
	})

	t.Run("preserves existing UUID", func(t *testing.T) {
		existingID := uuid.New()
		model := &BaseModel{ID: existingID}
		if err := model.BeforeCreate(nil); err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if model.ID != existingID {
			t.Errorf("expected ID to remain %s, got %s", existingID, model.ID)
		}
	})
}

func TestUser_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"password only", User{PasswordHash: strPtr("hash")}, false},
		{"google only", User{GoogleID: strPtr("g-1")}, false},
		{"both", User{PasswordHash: strPtr("hash"), GoogleID: strPtr("g-1")}, false},
		{"neither", User{}, true},
		{"empty strings", User{PasswordHash: strPtr(""), GoogleID: strPtr("")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.BeforeSave(nil)
			if tt.wantErr && !errors.Is(err, ErrMissingCredential) {
				t.Fatalf("expected ErrMissingCredential, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestPurposeAndStatus_Valid(t *testing.T) {
	for _, p := range []PropertyPurpose{PurposeSale, PurposeRental, PurposeCommercial, PurposePlot} {
		if !p.Valid() {
			t.Errorf("expected purpose %q to be valid", p)
		}
	}
	if PropertyPurpose("lease").Valid() {
		t.Error("expected purpose lease to be invalid")
	}
	for _, s := range []PropertyStatus{StatusPending, StatusApproved, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("expected status %q to be valid", s)
		}
	}
	if PropertyStatus("archived").Valid() {
		t.Error("expected status archived to be invalid")
	}
}

func TestProperty_Extension(t *testing.T) {
	t.Run("returns the record matching purpose", func(t *testing.T) {
		rental := &RentalProperty{PropertyType: "room"}
		p := &Property{Purpose: PurposeRental}
		p.AttachExtension(rental)

		if p.Rental != rental {
			t.Fatal("expected rental pointer to be attached")
		}
		if got := p.Extension(); got != Extension(rental) {
			t.Fatalf("expected rental extension, got %#v", got)
		}
	})

	t.Run("returns nil when not loaded", func(t *testing.T) {
		p := &Property{Purpose: PurposeSale}
		if got := p.Extension(); got != nil {
			t.Fatalf("expected nil extension, got %#v", got)
		}
	})

	t.Run("ignores a record of another purpose", func(t *testing.T) {
		p := &Property{Purpose: PurposeSale, Plot: &PlotProperty{}}
		if got := p.Extension(); got != nil {
			t.Fatalf("expected nil extension, got %#v", got)
		}
	})
}

func TestExtension_Validate(t *testing.T) {
	tests := []struct {
		name      string
		ext       Extension
		wantField string
	}{
		{"sale ok", &SaleProperty{PropertyType: "flat", CarpetArea: floatPtr(900)}, ""},
		{"sale missing carpet area", &SaleProperty{PropertyType: "flat"}, "carpetArea"},
		{"sale missing type", &SaleProperty{CarpetArea: floatPtr(900)}, "propertyType"},
		{"sale bad type", &SaleProperty{PropertyType: "castle", CarpetArea: floatPtr(900)}, "propertyType"},
		{"sale bad yes/no", &SaleProperty{PropertyType: "flat", CarpetArea: floatPtr(900), BuildingDetails: BuildingDetails{LiftAvailable: strPtr("maybe")}}, "liftAvailable"},
		{"commercial rejects residential type", &CommercialProperty{PropertyType: "flat", CarpetArea: floatPtr(500)}, "propertyType"},
		{"commercial ok", &CommercialProperty{PropertyType: "office", CarpetArea: floatPtr(500)}, ""},
		{"rental ok", &RentalProperty{PropertyType: "2bhk", Capacity: intPtr(3)}, ""},
		{"rental missing capacity", &RentalProperty{PropertyType: "2bhk"}, "capacity"},
		{"rental other needs custom type", &RentalProperty{PropertyType: "other", Capacity: intPtr(2)}, "customType"},
		{"rental other with custom type", &RentalProperty{PropertyType: "other", CustomType: strPtr("hostel"), Capacity: intPtr(2)}, ""},
		{"rental bad kitchen type", &RentalProperty{PropertyType: "room", Capacity: intPtr(1), KitchenType: strPtr("common")}, "kitchenType"},
		{"plot ok", &PlotProperty{PlotCategory: "agricultural", PlotArea: "2 acres"}, ""},
		{"plot missing area", &PlotProperty{PlotCategory: "residential"}, "plotArea"},
		{"plot bad facing", &PlotProperty{PlotCategory: "residential", PlotArea: "100 sq yd", FacingDirection: strPtr("up")}, "facingDirection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ext.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q (%s)", tt.wantField, verr.Field, verr.Message)
			}
		})
	}
}

func TestExtension_Describe(t *testing.T) {
	tests := []struct {
		name string
		ext  Extension
		want []string
	}{
		{
			name: "rental",
			ext: &RentalProperty{
				PropertyType:     "2bhk",
				Capacity:         intPtr(4),
				Facilities:       []string{"WiFi", " Parking "},
				FurnishingStatus: strPtr("furnished"),
				KitchenAvailable: strPtr("yes"),
				WashroomType:     strPtr("attached"),
				SuitableFor:      []string{"students"},
			},
			want: []string{"Capacity: 4 Persons", "WiFi", "Parking", "furnished", "kitchen available", "attached washroom", "2bhk", "students"},
		},
		{
			name: "sale",
			ext: &SaleProperty{
				PropertyType: "independent-house",
				CarpetArea:   floatPtr(1200),
				BuildingDetails: BuildingDetails{
					SuperBuiltUpArea: floatPtr(1450.5),
					CurrentFloor:     strPtr("2"),
					TotalFloors:      strPtr("4"),
					FurnishingStatus: strPtr("semi-furnished"),
					LiftAvailable:    strPtr("yes"),
					ParkingAvailable: strPtr("no"),
					Negotiable:       strPtr("yes"),
					OwnershipType:    strPtr("power-of-attorney"),
					NearbyLandmarks:  strPtr("Metro, City Mall ,"),
				},
			},
			want: []string{
				"1200 sqft carpet area", "1450.5 sqft super built-up", "2 of 4 floors",
				"independent house", "semi furnished", "lift available", "price negotiable",
				"power of attorney", "Metro", "City Mall",
			},
		},
		{
			name: "commercial",
			ext: &CommercialProperty{
				PropertyType: "showroom",
				CarpetArea:   floatPtr(800),
				BuildingDetails: BuildingDetails{
					CurrentFloor:      strPtr("Ground"),
					ParkingAvailable:  strPtr("yes"),
					ParkingType:       strPtr("dedicated"),
					WashroomAvailable: strPtr("yes"),
					PropertyAge:       strPtr("less-than-5-years"),
					RoadFacing:        strPtr("yes"),
				},
			},
			want: []string{
				"800 sqft carpet area", "Floor Ground", "showroom", "road facing",
				"dedicated parking", "washroom available", "less than 5 years",
			},
		},
		{
			name: "plot",
			ext: &PlotProperty{
				PlotCategory:    "residential",
				PlotArea:        "200 sq. yards",
				Length:          floatPtr(60),
				Breadth:         floatPtr(30),
				Frontage:        floatPtr(30),
				RoadWidth:       strPtr("40"),
				FacingDirection: strPtr("east"),
				NearbyAmenities: []string{"School"},
				PriceNegotiable: strPtr("yes"),
			},
			want: []string{
				"Area: 200 sq. yards", "60 x 30 ft", "30 ft frontage", "40 ft road width",
				"east facing", "School", "residential", "price negotiable",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ext.Describe()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Describe() =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{1200: "1200", 12.5: "12.5", 0.25: "0.25", 1e6: "1000000"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTableNames(t *testing.T) {
	if (SaleProperty{}).TableName() != "sale_properties" {
		t.Error("unexpected sale table name")
	}
	if (RentalProperty{}).TableName() != "rental_properties" {
		t.Error("unexpected rental table name")
	}
	if (CommercialProperty{}).TableName() != "commercial_properties" {
		t.Error("unexpected commercial table name")
	}
	if (PlotProperty{}).TableName() != "plot_properties" {
		t.Error("unexpected plot table name")
	}
	if (ModerationEvent{}).TableName() != "moderation_events" {
		t.Error("unexpected moderation event table name")
	}
}
