// Package db persists monitor state in Postgres: which records each watch
// has already seen, and a log of watch runs for auditing.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens the monitor database. An empty connStr falls back to the
// DATABASE_URL environment variable.
func NewDB(connStr string) (*DB, error) {
	if connStr == "" {
		connStr = os.Getenv("DATABASE_URL")
	}
	if connStr == "" {
		return nil, fmt.Errorf("database connection string not set (config database.url or DATABASE_URL)")
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS seen_records (
			id          SERIAL PRIMARY KEY,
			watch       TEXT NOT NULL,
			source      TEXT NOT NULL,
			record_key  TEXT NOT NULL,
			first_seen  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (watch, record_key)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create seen_records: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS watch_runs (
			id          SERIAL PRIMARY KEY,
			watch       TEXT NOT NULL,
			source      TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			total_rows  INT NOT NULL,
			new_rows    INT NOT NULL,
			abandoned   BOOLEAN NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create watch_runs: %w", err)
	}
	return nil
}

// MarkSeen records one scraped record under a watch and reports whether it
// was new. Re-inserting a known key is a no-op.
func (db *DB) MarkSeen(watch, source, recordKey string) (bool, error) {
	res, err := db.conn.Exec(`
		INSERT INTO seen_records (watch, source, record_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (watch, record_key) DO NOTHING`,
		watch, source, recordKey)
	if err != nil {
		return false, fmt.Errorf("failed to mark record seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SeenCount returns how many records a watch has accumulated.
func (db *DB) SeenCount(watch string) (int, error) {
	var n int
	err := db.conn.QueryRow(
		`SELECT count(*) FROM seen_records WHERE watch = $1`, watch).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count seen records: %w", err)
	}
	return n, nil
}

// RecordRun logs one completed watch run.
func (db *DB) RecordRun(watch, source string, started, finished time.Time, totalRows, newRows int, abandoned bool) error {
	_, err := db.conn.Exec(`
		INSERT INTO watch_runs (watch, source, started_at, finished_at, total_rows, new_rows, abandoned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		watch, source, started, finished, totalRows, newRows, abandoned)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
