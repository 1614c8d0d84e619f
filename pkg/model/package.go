package model

import "strconv"

const (
	UnknownPackage     = "Unknown Package"
	UnknownDestination = "Unknown Destination"
)

// Package is the client-facing tour package. The pair (ID, IsLocal) is unique:
// local and international packages come from different tables and may share ids.
type Package struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name"`
	Airline     string         `json:"airline"`
	Destination string         `json:"destination"`
	Location    string         `json:"location"`
	Price       float64        `json:"price" validate:"gte=0"`
	Image       string         `json:"image"`
	Description string         `json:"description,omitempty"`
	Itinerary   []ItineraryDay `json:"itinerary,omitempty"`
	Gallery     []string       `json:"gallery,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	Stops       string         `json:"stops,omitempty"`
	Inclusions  string         `json:"inclusions,omitempty"`
	Exclusions  string         `json:"exclusions,omitempty"`
	Departure   string         `json:"departure,omitempty"`
	Arrival     string         `json:"arrival,omitempty"`
	Available   *int           `json:"available,omitempty"`
	IsLocal     bool           `json:"isLocal"`
}

type ItineraryDay struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

type PackageKey struct {
	ID      string
	IsLocal bool
}

func (p Package) Key() PackageKey {
	return PackageKey{ID: p.ID, IsLocal: p.IsLocal}
}

// NumericID returns the relational primary key behind ID.
func (p Package) NumericID() (int64, error) {
	return strconv.ParseInt(p.ID, 10, 64)
}

// PackageRecord holds the columns shared by package_info and local_package_info.
// Text columns are nullable in the source tables.
type PackageRecord struct {
	ID          int64    `gorm:"column:id;primaryKey"`
	Name        *string  `gorm:"column:name"`
	Destination *string  `gorm:"column:destination"`
	Location    *string  `gorm:"column:location"`
	Price       *float64 `gorm:"column:price"`
	MainPhoto   *string  `gorm:"column:main_photo"`
	Description *string  `gorm:"column:description"`
	Itinerary   *string  `gorm:"column:itinerary"`
	Gallery     *string  `gorm:"column:gallery"`
	Duration    *string  `gorm:"column:duration"`
	Stops       *string  `gorm:"column:stops"`
	Inclusions  *string  `gorm:"column:inclusions"`
	Exclusions  *string  `gorm:"column:exclusions"`
	Departure   *string  `gorm:"column:departure"`
	Arrival     *string  `gorm:"column:arrival"`
	Available   *int     `gorm:"column:available"`
}

type PackageInfo struct {
	PackageRecord
}

func (PackageInfo) TableName() string { return "package_info" }

type LocalPackageInfo struct {
	PackageRecord
}

func (LocalPackageInfo) TableName() string { return "local_package_info" }

// Str dereferences a nullable text column.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
