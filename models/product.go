// ABOUTME: Data models for normalized catalog products and delivery estimates
// ABOUTME: JSON-serializable structures matching storefront expectations

package models

import "time"

// Season is the canonical tire season.
type Season string

const (
	SeasonWinter    Season = "winter"
	SeasonSummer    Season = "summer"
	SeasonAllSeason Season = "allseason"
)

// DeliveryClass is the urgency bucket for a delivery estimate.
type DeliveryClass string

const (
	DeliveryToday  DeliveryClass = "today"
	DeliveryFast   DeliveryClass = "fast"
	DeliveryMedium DeliveryClass = "medium"
	DeliverySlow   DeliveryClass = "slow"
)

// Dimensions holds tire geometry. Width and height are millimeters/percent,
// diameter is inches.
type Dimensions struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Diameter int `json:"diameter"`
}

// FeatureFlags carries boolean product attributes.
type FeatureFlags struct {
	RunFlat bool `json:"runflat"`
	Spike   bool `json:"spike"`
	Cargo   bool `json:"cargo"`
	SUV     bool `json:"suv"`
}

// DeliveryEstimate is a human-readable delivery text plus its urgency class.
// Derived per request, never stored.
type DeliveryEstimate struct {
	Text  string        `json:"text"`
	Class DeliveryClass `json:"class"`
}

// Product is the canonical catalog record. Created by normalization or the
// synthetic generator; treated as immutable by all downstream consumers.
// An empty ProviderID means the item is in own stock.
type Product struct {
	ID              string           `json:"id"`
	DisplayName     string           `json:"display_name"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"image_url"`
	Dimensions      Dimensions       `json:"dimensions"`
	Season          Season           `json:"season"`
	Brand           string           `json:"brand"`
	Model           string           `json:"model"`
	CountryOfOrigin string           `json:"country_of_origin"`
	Stock           int              `json:"stock"`
	Features        FeatureFlags     `json:"features"`
	ProviderID      string           `json:"provider_id,omitempty"`
	Warehouses      map[string]int   `json:"warehouses,omitempty"`
	ItemOfDay       bool             `json:"item_of_day,omitempty"`
	Delivery        DeliveryEstimate `json:"delivery"`
}

// Filters is the caller-supplied filter set for a catalog fetch.
// Empty string / false means "not supplied" and is omitted from the
// upstream query rather than sent as a sentinel.
type Filters struct {
	Season   string `json:"season,omitempty"`
	Width    string `json:"width,omitempty"`
	Height   string `json:"height,omitempty"`
	Diameter string `json:"diameter,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	Category string `json:"category,omitempty"`
	RunFlat  bool   `json:"runflat,omitempty"`
	Studded  bool   `json:"studded,omitempty"`
	Cargo    bool   `json:"cargo,omitempty"`
}

// CatalogResponse is the envelope returned by all catalog endpoints.
type CatalogResponse struct {
	Products  []Product `json:"products"`
	Synthetic bool      `json:"synthetic"`
	Metadata  Metadata  `json:"metadata"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Total     int       `json:"total"`
	Cached    bool      `json:"cached"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
