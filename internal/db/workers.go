package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WorkerCredentials is the auth-facing view of a worker row. Workers sign
// in with their identity document number, not an email.
type WorkerCredentials struct {
	ID           int64
	Name         string
	Document     string
	PasswordHash string
}

// GetWorkerCredentials looks up a worker's login record by document number.
// Returns (nil, nil) when no such worker exists.
func (db *DB) GetWorkerCredentials(ctx context.Context, document string) (*WorkerCredentials, error) {
	var w WorkerCredentials
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, document, password_hash FROM workers WHERE document = $1`,
		document,
	).Scan(&w.ID, &w.Name, &w.Document, &w.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker credentials: %w", err)
	}
	return &w, nil
}

// UpdateWorkerAvailability sets a worker's availability token. Used by the
// technician dashboard to toggle between bookable states.
func (db *DB) UpdateWorkerAvailability(ctx context.Context, workerID int64, availability string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE workers SET availability = $1 WHERE id = $2`,
		availability, workerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %d not found", workerID)
	}
	return nil
}
