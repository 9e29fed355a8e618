// Package catalog exposes the read model the pipeline works against:
// service categories, cities, worker candidates and market price bands.
// The Gateway interface is implemented by the database store; the rest of
// the package is pure helpers (snapshot rendering, text extraction) so the
// agents can consume catalog data without touching the database directly.
package catalog

import (
	"context"

	"github.com/taskpro/taskpro-backend/internal/types"
)

// City is a serviceable city from the catalog.
type City struct {
	ID   int64
	Name string
}

// Requester is a registered customer matched by name.
type Requester struct {
	ID   int64
	Name string
}

// CandidateFilter narrows the candidate fetch. Availability defaults to
// every bookable state when empty; Limit defaults to MaxCandidateFetch.
type CandidateFilter struct {
	CategoryID   int64
	CityID       *int64
	Availability []types.Availability
	Limit        int
}

// MaxCandidateFetch caps how many workers are pulled per request. Keeps
// the ranking prompt small regardless of catalog size.
const MaxCandidateFetch = 15

// Normalize fills filter defaults in place.
func (f *CandidateFilter) Normalize() {
	if len(f.Availability) == 0 {
		f.Availability = types.DefaultAvailabilitySet()
	}
	if f.Limit <= 0 || f.Limit > MaxCandidateFetch {
		f.Limit = MaxCandidateFetch
	}
}

// Gateway is the catalog access surface the pipeline depends on.
type Gateway interface {
	// ListCategories returns the full service category catalog.
	ListCategories(ctx context.Context) ([]types.ServiceCategory, error)

	// ListCities returns every serviceable city.
	ListCities(ctx context.Context) ([]City, error)

	// FindCandidates returns workers matching the filter, best rated and
	// most experienced first. An empty result is not an error.
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]types.WorkerCandidate, error)

	// ResolveNeighborhood maps a neighborhood ID to its full location.
	// Returns (nil, nil) when the neighborhood does not exist.
	ResolveNeighborhood(ctx context.Context, neighborhoodID int64) (*types.Location, error)

	// MarketRate returns the price band for a category in a city, or
	// (nil, nil) when no band is recorded.
	MarketRate(ctx context.Context, categoryID, cityID int64) (*types.MarketRate, error)

	// FindRequesterByName matches a registered requester by exact name,
	// case-insensitive. Returns (nil, nil) when unknown.
	FindRequesterByName(ctx context.Context, name string) (*Requester, error)

	// CreateRequest persists a service request and fills in its ID and
	// creation time.
	CreateRequest(ctx context.Context, req *types.ServiceRequest) error
}
