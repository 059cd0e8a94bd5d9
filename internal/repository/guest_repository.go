package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/dinner-invite/internal/model"
)

// GuestRepo reads and writes the guests table. Each row binds one seat
// to one guest name; the seat column is the primary key, so the
// database is the final arbiter when two guests race for the same seat.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// DB exposes the underlying handle so the owner can close it.
func (r *GuestRepo) DB() *sql.DB { return r.db }

// List returns every reservation ordered by seat number. An empty table
// yields an empty, non-nil slice.
func (r *GuestRepo) List(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT seat, name FROM guests ORDER BY seat`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Reservation, 0, 8)
	for rows.Next() {
		var g model.Reservation
		if err := rows.Scan(&g.Seat, &g.Name); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert writes a single reservation. A primary key collision is
// reported as ErrSeatTaken wrapped with the seat number; any other
// driver error is returned as-is.
func (r *GuestRepo) Insert(ctx context.Context, g model.Reservation) error {
	const q = `INSERT INTO guests (seat, name) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, int(g.Seat), g.Name); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("seat %d: %w", g.Seat, ErrSeatTaken)
		}
		return err
	}
	return nil
}
