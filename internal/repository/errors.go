// Package repository defines error types that are reused across the
// guest repository. These sentinel values allow higher layers such as
// the reservation engine and the handlers to distinguish between
// different failure scenarios. For example, ErrSeatTaken signals that
// the store rejected an insert because another guest already holds the
// seat.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrSeatTaken is returned when an insert collides with an existing row
// for the same seat. Handlers surface it to the guest as a store error.
var ErrSeatTaken = errors.New("seat already taken")

// mysqlDuplicateEntry is the MySQL server error number for a duplicate key.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a primary/unique key violation
// from either supported driver.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
