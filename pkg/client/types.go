package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response is the standard { success, data, error } envelope.
type Response[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data"`
	Error      string      `json:"error,omitempty"`
	Field      string      `json:"field,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Avatar  string `json:"avatar,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// Property mirrors a listing as the API returns it. Category details are
// kept as raw maps since their shape depends on the purpose.
type Property struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"userId"`
	Owner       *User           `json:"owner,omitempty"`
	Location    string          `json:"location"`
	Images      []string        `json:"images"`
	Purpose     string          `json:"property_purpose"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Name        *string         `json:"name"`
	Status      string          `json:"status"`
	Mobile      *string         `json:"mobile"`
	Features    []string        `json:"features,omitempty"`
	Interests   []Interest      `json:"interests,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Sale       map[string]any `json:"SaleProperty,omitempty"`
	Rental     map[string]any `json:"RentalProperty,omitempty"`
	Commercial map[string]any `json:"CommercialProperty,omitempty"`
	Plot       map[string]any `json:"PlotProperty,omitempty"`
}

// Title is the listing name, falling back to its location.
func (p Property) Title() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Location
}

type Interest struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Message    *string   `json:"message"`
	PropertyID string    `json:"propertyId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type InterestRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Message    *string `json:"message,omitempty"`
	PropertyID string  `json:"propertyId"`
}

type ModerationEvent struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	ActorID    string    `json:"actorId"`
	Actor      *User     `json:"actor,omitempty"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Page asks the server for a paginated list. A nil Page returns everything.
type Page struct {
	Page  int
	Limit int
}

// Session is the pair of session cookies, exported so callers can persist a
// login between runs.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}
