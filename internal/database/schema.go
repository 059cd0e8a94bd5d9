package database

import (
	"context"
	"database/sql"
)

// guestsSchema is valid for both MySQL and SQLite. The primary key on
// seat is what rejects a second reservation for the same chair.
const guestsSchema = `CREATE TABLE IF NOT EXISTS guests (
	seat       INTEGER      NOT NULL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migrate creates the guests table if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, guestsSchema)
	return err
}
