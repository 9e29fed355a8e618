// Package types defines the shared domain types for the matching pipeline.
package types

import "strings"

// ServiceCategory is a catalog entry for a service trade (plumbing,
// electrical, ...). Reference data, read-only for the pipeline.
type ServiceCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// Availability describes when a worker can take a job. Upstream data uses
// several equivalent tokens for the same state, so values always go through
// ParseAvailability before comparison.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityPartial     Availability = "partial"
	AvailabilityImmediate   Availability = "immediate"
	AvailabilityScheduled   Availability = "scheduled"
	AvailabilityUnavailable Availability = "unavailable"
)

// DefaultAvailabilitySet is the allow-set used when fetching candidates:
// every state except unavailable counts as bookable.
func DefaultAvailabilitySet() []Availability {
	return []Availability{
		AvailabilityAvailable,
		AvailabilityPartial,
		AvailabilityImmediate,
		AvailabilityScheduled,
	}
}

// ParseAvailability normalizes an upstream availability token. Legacy rows
// carry Spanish and uppercase variants ("disponible", "HOY", "INMEDIATA").
func ParseAvailability(token string) Availability {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "available", "disponible":
		return AvailabilityAvailable
	case "partial", "parcial":
		return AvailabilityPartial
	case "immediate", "inmediata", "hoy", "today":
		return AvailabilityImmediate
	case "scheduled", "programada":
		return AvailabilityScheduled
	default:
		return AvailabilityUnavailable
	}
}

// WorkerCandidate is a worker eligible for a request, as returned by the
// catalog store. The pipeline treats it as read-only input.
type WorkerCandidate struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	YearsExperience int          `json:"years_experience"`
	Rating          float64      `json:"rating"` // 1.0-5.0
	Availability    Availability `json:"availability"`
	CoverageKm      int          `json:"coverage_km"`
	HourlyRate      int64        `json:"hourly_rate"`
	VisitRate       int64        `json:"visit_rate"`
	Certifications  string       `json:"certifications,omitempty"`
	Insured         bool         `json:"insured"`
	Neighborhood    string       `json:"neighborhood"`
	City            string       `json:"city"`
}

// Location is a resolved service location: a neighborhood within a city.
type Location struct {
	NeighborhoodID int64  `json:"neighborhood_id"`
	CityID         int64  `json:"city_id"`
	CityName       string `json:"city_name"`
}

// MarketRate is the reference price band for a category in a city.
type MarketRate struct {
	CategoryID int64  `json:"category_id"`
	City       string `json:"city"`
	PriceMin   int64  `json:"price_min"`
	PriceMax   int64  `json:"price_max"`
	Source     string `json:"source"`
}
