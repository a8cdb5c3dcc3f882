package models

import (
	"time"
)

// Property type codes. Every ingested record resolves to exactly one of these;
// raw source codes never leak past the classifier.
const (
	TypeSFR   = "SFR"
	TypeCondo = "CONDO"
	TypeMulti = "MULTI"
	TypeComm  = "COMM"
)

// CanonicalProperty is the durable unit of the system: one parcel, one record.
type CanonicalProperty struct {
	ParcelID          string     `db:"parcel_id" json:"parcel_id"`
	SyntheticID       bool       `db:"synthetic_id" json:"synthetic_id"`
	Address           string     `db:"address" json:"address"`
	NormalizedAddress string     `db:"normalized_address" json:"-"`
	MailingAddress    string     `db:"mailing_address" json:"mailing_address"`
	City              string     `db:"city" json:"city"`
	State             string     `db:"state" json:"state"`
	Zip               string     `db:"zip" json:"zip"`
	Owner             string     `db:"owner" json:"owner"`
	Latitude          *float64   `db:"latitude" json:"lat,omitempty"`
	Longitude         *float64   `db:"longitude" json:"lng,omitempty"`
	Bedrooms          *int64     `db:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms         *float64   `db:"bathrooms" json:"bathrooms,omitempty"`
	SquareFeet        *int64     `db:"square_feet" json:"square_feet,omitempty"`
	LotSize           *float64   `db:"lot_size" json:"lot_size,omitempty"`
	YearBuilt         *int64     `db:"year_built" json:"year_built,omitempty"`
	NumberOfUnits     *int64     `db:"number_of_units" json:"number_of_units,omitempty"`
	PropertyType      string     `db:"property_type" json:"property_type"`
	IsAbsentee        bool       `db:"is_absentee" json:"is_absentee"`
	IsVacant          bool       `db:"is_vacant" json:"is_vacant"`
	PurchasePrice     *float64   `db:"purchase_price" json:"purchase_price,omitempty"`
	PurchaseDate      *time.Time `db:"-" json:"purchase_date,omitempty"`
	Tags              []string   `db:"-" json:"tags"`
}

// FarmLink records that a parcel belongs to a named farm (collection) for an
// agent. Annotation fields are agent-owned and survive re-imports.
type FarmLink struct {
	ParcelID string `db:"parcel_id" json:"parcel_id"`
	Farm     string `db:"farm" json:"farm"`
	Agent    string `db:"agent" json:"agent"`
	Notes    string `db:"notes" json:"notes"`
	Hot      bool   `db:"hot" json:"hot"`
	Visits   int    `db:"visits" json:"visits"`
}

// ContactEnrichment holds crowd-contributed contact details, shared across agents.
type ContactEnrichment struct {
	ParcelID string `db:"parcel_id" json:"parcel_id"`
	Phone    string `db:"phone" json:"phone"`
	Email    string `db:"email" json:"email"`
	Source   string `db:"source" json:"source"`
}

// ImportSummary tells the operator what happened to a batch.
type ImportSummary struct {
	TotalRows        int `json:"total_rows"`
	SkippedRows      int `json:"skipped_rows"`
	Normalized       int `json:"normalized"`
	DroppedNoAddress int `json:"dropped_no_address"`
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	Geocoded         int `json:"geocoded"`
}

// PropertyListItem is a lightweight property for map markers.
type PropertyListItem struct {
	ParcelID     string  `db:"parcel_id" json:"parcel_id"`
	Latitude     float64 `db:"latitude" json:"lat"`
	Longitude    float64 `db:"longitude" json:"lng"`
	Address      string  `db:"address" json:"address"`
	City         string  `db:"city" json:"city"`
	PropertyType string  `db:"property_type" json:"property_type"`
	IsAbsentee   bool    `db:"is_absentee" json:"is_absentee"`
}
