package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/types"
)

// -----------------------------------------------------------------------------
// catalog.Gateway implementation
// -----------------------------------------------------------------------------

// ListCategories returns the full service category catalog, ordered by ID.
func (db *DB) ListCategories(ctx context.Context) ([]types.ServiceCategory, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, group_name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []types.ServiceCategory
	for rows.Next() {
		var c types.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Group, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// ListCities returns every serviceable city, ordered by ID.
func (db *DB) ListCities(ctx context.Context) ([]catalog.City, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []catalog.City
	for rows.Next() {
		var c catalog.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cities: %w", err)
	}
	return cities, nil
}

// FindCandidates returns workers matching the filter, best rated and most
// experienced first. The availability filter is an explicit allow-set
// expanded to every legacy token for each state.
func (db *DB) FindCandidates(ctx context.Context, filter catalog.CandidateFilter) ([]types.WorkerCandidate, error) {
	filter.Normalize()

	query := strings.Builder{}
	query.WriteString(
		`SELECT w.id, w.name, w.years_experience, w.rating, w.availability,
		        w.coverage_km, wc.hourly_rate, wc.visit_rate, w.certifications,
		        w.insured, n.name, ci.name
		 FROM workers w
		 JOIN worker_categories wc ON wc.worker_id = w.id
		 JOIN neighborhoods n ON n.id = w.neighborhood_id
		 JOIN cities ci ON ci.id = n.city_id
		 WHERE wc.category_id = $1
		   AND lower(w.availability) = ANY($2)`)

	args := []any{filter.CategoryID, availabilityTokens(filter.Availability)}
	if filter.CityID != nil {
		args = append(args, *filter.CityID)
		query.WriteString(fmt.Sprintf(" AND ci.id = $%d", len(args)))
	}
	args = append(args, filter.Limit)
	query.WriteString(fmt.Sprintf(
		" ORDER BY w.rating DESC, w.years_experience DESC LIMIT $%d", len(args)))

	rows, err := db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	defer rows.Close()

	candidates := []types.WorkerCandidate{}
	for rows.Next() {
		var w types.WorkerCandidate
		var availability string
		var certifications *string
		if err := rows.Scan(&w.ID, &w.Name, &w.YearsExperience, &w.Rating,
			&availability, &w.CoverageKm, &w.HourlyRate, &w.VisitRate,
			&certifications, &w.Insured, &w.Neighborhood, &w.City); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		w.Availability = types.ParseAvailability(availability)
		if certifications != nil {
			w.Certifications = *certifications
		}
		candidates = append(candidates, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return candidates, nil
}

// ResolveNeighborhood maps a neighborhood ID to its full location.
func (db *DB) ResolveNeighborhood(ctx context.Context, neighborhoodID int64) (*types.Location, error) {
	var loc types.Location
	err := db.pool.QueryRow(ctx,
		`SELECT n.id, ci.id, ci.name
		 FROM neighborhoods n
		 JOIN cities ci ON ci.id = n.city_id
		 WHERE n.id = $1`,
		neighborhoodID,
	).Scan(&loc.NeighborhoodID, &loc.CityID, &loc.CityName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve neighborhood: %w", err)
	}
	return &loc, nil
}

// MarketRate returns the price band for a category in a city.
func (db *DB) MarketRate(ctx context.Context, categoryID, cityID int64) (*types.MarketRate, error) {
	var rate types.MarketRate
	err := db.pool.QueryRow(ctx,
		`SELECT mr.category_id, ci.name, mr.price_min, mr.price_max, mr.source
		 FROM market_rates mr
		 JOIN cities ci ON ci.id = mr.city_id
		 WHERE mr.category_id = $1 AND mr.city_id = $2`,
		categoryID, cityID,
	).Scan(&rate.CategoryID, &rate.City, &rate.PriceMin, &rate.PriceMax, &rate.Source)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get market rate: %w", err)
	}
	return &rate, nil
}

// FindRequesterByName matches a registered requester by exact name,
// case-insensitive.
func (db *DB) FindRequesterByName(ctx context.Context, name string) (*catalog.Requester, error) {
	var r catalog.Requester
	err := db.pool.QueryRow(ctx,
		`SELECT id, name FROM requesters WHERE lower(name) = lower($1)`,
		name,
	).Scan(&r.ID, &r.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}
	return &r, nil
}

// CreateRequest persists a service request and fills in its ID and creation
// time. Simulated requests must never reach this method.
func (db *DB) CreateRequest(ctx context.Context, req *types.ServiceRequest) error {
	if req.Simulated {
		return fmt.Errorf("refusing to persist a simulated request")
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO requests (requester_id, requester_name, category_id, description,
		                       urgency, neighborhood_id, status, estimated_price, flagged)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		req.RequesterID, req.RequesterName, req.CategoryID, req.Description,
		string(req.Urgency), req.NeighborhoodID, string(req.Status),
		req.EstimatedPrice, req.Flagged,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// availabilityTokens expands canonical availability states into every
// lowercase token upstream rows may carry for that state.
func availabilityTokens(set []types.Availability) []string {
	var tokens []string
	for _, a := range set {
		switch a {
		case types.AvailabilityAvailable:
			tokens = append(tokens, "available", "disponible")
		case types.AvailabilityPartial:
			tokens = append(tokens, "partial", "parcial")
		case types.AvailabilityImmediate:
			tokens = append(tokens, "immediate", "inmediata", "hoy", "today")
		case types.AvailabilityScheduled:
			tokens = append(tokens, "scheduled", "programada")
		case types.AvailabilityUnavailable:
			tokens = append(tokens, "unavailable", "no_disponible")
		}
	}
	return tokens
}
