// Command seed_demo creates the schema and loads the demo dataset used by
// the local development environment: two cities, three neighborhoods, five
// service categories and a handful of workers with known credentials.
//
// Usage:
//
//	go run cmd/tools/seed_demo/main.go
//
// Requires DATABASE_URL. Worker passwords are hashed with the same bcrypt
// configuration the server uses, so BCRYPT_COST and PASSWORD_PEPPER must
// match the server environment. The demo login password is "demo-password".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskpro/taskpro-backend/internal/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		group_name  TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS cities (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS neighborhoods (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		city_id BIGINT NOT NULL REFERENCES cities(id)
	)`,
	`CREATE TABLE IF NOT EXISTS workers (
		id               BIGSERIAL PRIMARY KEY,
		name             TEXT NOT NULL,
		document         TEXT NOT NULL UNIQUE,
		password_hash    TEXT NOT NULL,
		years_experience INT NOT NULL DEFAULT 0,
		rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
		availability     TEXT NOT NULL DEFAULT 'available',
		coverage_km      INT NOT NULL DEFAULT 0,
		certifications   TEXT,
		insured          BOOLEAN NOT NULL DEFAULT false,
		neighborhood_id  BIGINT NOT NULL REFERENCES neighborhoods(id)
	)`,
	`CREATE TABLE IF NOT EXISTS worker_categories (
		worker_id   BIGINT NOT NULL REFERENCES workers(id),
		category_id BIGINT NOT NULL REFERENCES categories(id),
		hourly_rate BIGINT NOT NULL,
		visit_rate  BIGINT NOT NULL,
		PRIMARY KEY (worker_id, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS market_rates (
		category_id BIGINT NOT NULL REFERENCES categories(id),
		city_id     BIGINT NOT NULL REFERENCES cities(id),
		price_min   BIGINT NOT NULL,
		price_max   BIGINT NOT NULL,
		source      TEXT NOT NULL DEFAULT 'manual',
		PRIMARY KEY (category_id, city_id)
	)`,
	`CREATE TABLE IF NOT EXISTS requesters (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id              BIGSERIAL PRIMARY KEY,
		requester_id    BIGINT REFERENCES requesters(id),
		requester_name  TEXT NOT NULL DEFAULT '',
		category_id     BIGINT NOT NULL REFERENCES categories(id),
		description     TEXT NOT NULL,
		urgency         TEXT NOT NULL DEFAULT 'medium',
		neighborhood_id BIGINT REFERENCES neighborhoods(id),
		status          TEXT NOT NULL DEFAULT 'pending',
		estimated_price BIGINT NOT NULL DEFAULT 0,
		flagged         BOOLEAN NOT NULL DEFAULT false,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

type demoWorker struct {
	name         string
	document     string
	experience   int
	rating       float64
	availability string
	coverageKm   int
	certs        string
	insured      bool
	neighborhood int64
	categoryID   int64
	hourlyRate   int64
	visitRate    int64
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("=== TaskPro Demo Seed ===")
	fmt.Println()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to create schema: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("Schema ready.")

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&count); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to inspect categories: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Println("Catalog already seeded, nothing to do.")
		return
	}

	if err := seed(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Done. Demo worker login: document 1030567890, password demo-password")
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []struct {
		name, group, description string
	}{
		{"Plumbing", "Repairs", "Leaks, clogged drains, toilet and faucet repair"},
		{"Electrical", "Repairs", "Wiring, outlets, breaker panels, lighting"},
		{"Cleaning", "Household", "Deep cleaning, move-out cleaning, regular service"},
		{"Painting", "Household", "Interior and exterior painting, patching"},
		{"Locksmith", "Security", "Lockouts, lock replacement, key duplication"},
	}
	for _, c := range categories {
		if _, err := pool.Exec(ctx,
			`INSERT INTO categories (name, group_name, description) VALUES ($1, $2, $3)`,
			c.name, c.group, c.description); err != nil {
			return fmt.Errorf("insert category %s: %w", c.name, err)
		}
	}
	fmt.Printf("Seeded %d categories.\n", len(categories))

	for _, city := range []string{"Bogotá D.C.", "Medellín"} {
		if _, err := pool.Exec(ctx, `INSERT INTO cities (name) VALUES ($1)`, city); err != nil {
			return fmt.Errorf("insert city %s: %w", city, err)
		}
	}

	neighborhoods := []struct {
		name   string
		cityID int64
	}{
		{"Chapinero", 1},
		{"Usaquén", 1},
		{"El Poblado", 2},
	}
	for _, n := range neighborhoods {
		if _, err := pool.Exec(ctx,
			`INSERT INTO neighborhoods (name, city_id) VALUES ($1, $2)`,
			n.name, n.cityID); err != nil {
			return fmt.Errorf("insert neighborhood %s: %w", n.name, err)
		}
	}
	fmt.Println("Seeded cities and neighborhoods.")

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("password config: %w", err)
	}
	hash, err := passwordConfig.HashPassword("demo-password")
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	workers := []demoWorker{
		{
			name: "Carlos Pérez", document: "1030567890",
			experience: 12, rating: 4.8, availability: "available",
			coverageKm: 15, certs: "Certified gas fitter", insured: true,
			neighborhood: 1, categoryID: 1, hourlyRate: 45000, visitRate: 20000,
		},
		{
			name: "Andrés Ramírez", document: "1020456789",
			experience: 7, rating: 4.5, availability: "inmediata",
			coverageKm: 10, insured: true,
			neighborhood: 2, categoryID: 1, hourlyRate: 38000, visitRate: 15000,
		},
		{
			name: "Roberto Díaz", document: "1010345678",
			experience: 20, rating: 4.9, availability: "scheduled",
			coverageKm: 25, certs: "RETIE certified", insured: false,
			neighborhood: 1, categoryID: 2, hourlyRate: 52000, visitRate: 25000,
		},
	}
	for _, w := range workers {
		var certs *string
		if w.certs != "" {
			certs = &w.certs
		}
		var workerID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO workers (name, document, password_hash, years_experience,
			                      rating, availability, coverage_km, certifications,
			                      insured, neighborhood_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`,
			w.name, w.document, hash, w.experience, w.rating, w.availability,
			w.coverageKm, certs, w.insured, w.neighborhood,
		).Scan(&workerID)
		if err != nil {
			return fmt.Errorf("insert worker %s: %w", w.name, err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO worker_categories (worker_id, category_id, hourly_rate, visit_rate)
			 VALUES ($1, $2, $3, $4)`,
			workerID, w.categoryID, w.hourlyRate, w.visitRate); err != nil {
			return fmt.Errorf("insert worker category for %s: %w", w.name, err)
		}
	}
	fmt.Printf("Seeded %d workers.\n", len(workers))

	rates := []struct {
		categoryID, cityID, min, max int64
	}{
		{1, 1, 60000, 120000},
		{2, 1, 70000, 150000},
		{1, 2, 50000, 100000},
	}
	for _, r := range rates {
		if _, err := pool.Exec(ctx,
			`INSERT INTO market_rates (category_id, city_id, price_min, price_max, source)
			 VALUES ($1, $2, $3, $4, 'demo')`,
			r.categoryID, r.cityID, r.min, r.max); err != nil {
			return fmt.Errorf("insert market rate: %w", err)
		}
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO requesters (name) VALUES ($1)`, "María González"); err != nil {
		return fmt.Errorf("insert requester: %w", err)
	}
	fmt.Println("Seeded market rates and requesters.")

	return nil
}
