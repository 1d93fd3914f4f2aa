// Package db persists profiles through sqlx on PostgreSQL or SQLite.
package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// driverNames maps config driver names to registered database/sql drivers.
var driverNames = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite",
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	name, ok := driverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, name, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	// SQLite allows one writer; a single connection also keeps :memory:
	// databases shared across queries.
	if name == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	log.Printf("[Database] Connected using %s driver", driver)
	return db, nil
}
