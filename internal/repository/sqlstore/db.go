// Package sqlstore stores users and projects through database/sql.
// It serves SQLite (modernc, no cgo) for local runs and tests, and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the driver and schema flavour
type Dialect string

const (
	SQLite Dialect = "sqlite"
	MySQL  Dialect = "mysql"
)

const mysqlDuplicateEntry = 1062

// DB wraps a database/sql handle and its dialect
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects with the given dialect and verifies the connection
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	var driver string
	switch dialect {
	case SQLite:
		driver = "sqlite"
		if dsn == "" {
			dsn = "file::memory:"
		}
	case MySQL:
		driver = "mysql"
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// one connection keeps an in-memory database alive and serializes writers
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return &DB{conn: conn, dialect: dialect}, nil
}

// EnsureSchema creates the tables when they do not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema[db.dialect] {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database handle
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

var schema = map[Dialect][]string{
	SQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id            VARCHAR(36) PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			system_prompt TEXT NOT NULL,
			owner_id      VARCHAR(36) NOT NULL REFERENCES users (id),
			created_at    BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS projects_owner_created_idx ON projects (owner_id, created_at)`,
	},
	MySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id            VARCHAR(36) PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			system_prompt TEXT NOT NULL,
			owner_id      VARCHAR(36) NOT NULL,
			created_at    BIGINT NOT NULL,
			INDEX projects_owner_created_idx (owner_id, created_at),
			FOREIGN KEY (owner_id) REFERENCES users (id)
		)`,
	},
}
