// Package db opens the MySQL connection used for user profile lookups.
package db

import (
	"context"

	"gorm.io/gorm"
)

// Database hands out request-scoped gorm sessions on the profile database
type Database interface {
	// Session returns a gorm handle bound to ctx. It fails with ErrClosed
	// once Close has been called.
	Session(ctx context.Context) (*gorm.DB, error)
	Ping(ctx context.Context) error
	Close() error
}
