// Package storage persists the battle corpus and evaluation history in
// SQLite so the advisor can serve from a database instead of a directory.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
}

// Config holds database settings.
type Config struct {
	// Path is the SQLite file. ":memory:" opens a private in-memory database.
	Path string

	// MaxOpenConns caps the pool. Default: 4
	MaxOpenConns int

	// BusyTimeout is how long a writer waits on a locked database. Default: 5s
	BusyTimeout time.Duration

	// JournalMode is the SQLite journal mode. Default: WAL
	JournalMode string

	// AutoMigrate applies pending migrations before the pool is opened.
	AutoMigrate bool
}

// DefaultConfig returns the settings the advisor uses for path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:         path,
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		AutoMigrate:  true,
	}
}

func (c *Config) dsn() string {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_time_format=sqlite", c.Path)
	if c.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_pragma=busy_timeout(%d)", c.BusyTimeout.Milliseconds())
	}
	if c.JournalMode != "" {
		dsn += fmt.Sprintf("&_pragma=journal_mode(%s)", c.JournalMode)
	}
	return dsn
}

// Open connects to the database described by config, migrating it first
// when AutoMigrate is set.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	inMemory := config.Path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if config.AutoMigrate {
			if err := Migrate(config.Path); err != nil {
				return nil, err
			}
		}
	}

	conn, err := sql.Open("sqlite", config.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := config.MaxOpenConns
	if inMemory || maxOpen <= 0 {
		// Every connection to :memory: is a separate database.
		maxOpen = 1
	}
	conn.SetMaxOpenConns(maxOpen)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if inMemory && config.AutoMigrate {
		if err := db.applySchema(); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
