package storage

import (
	"database/sql"
	"fmt"

	// Drivers available to Open.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open opens and pings a database handle for the given driver.
// Supported drivers are "postgres" and "sqlite3".
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
