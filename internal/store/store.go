package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/upwell-app/upwell/internal/config"
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DB wraps the database connection and hides placeholder differences
// between drivers. Queries are written with "?" placeholders.
type DB struct {
	conn   *sql.DB
	driver Driver
}

// Open opens the database selected by the user's config. Without a config
// it opens (or creates) the local SQLite database.
func Open() (*DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dsn := cfg.Store.DSN
	if v := os.Getenv("UPWELL_STORE_DSN"); v != "" {
		dsn = v
	}

	switch Driver(cfg.Store.Driver) {
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("store.driver is postgres but no DSN is set (config store.dsn or UPWELL_STORE_DSN)")
		}
		return OpenPostgres(dsn)
	case DriverSQLite, "":
		if dsn != "" {
			return OpenSQLite(dsn)
		}
		paths := config.GetPaths()
		if err := paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("creating data dirs: %w", err)
		}
		return OpenSQLite(paths.DBFile)
	default:
		return nil, fmt.Errorf("unknown store driver %q (use sqlite or postgres)", cfg.Store.Driver)
	}
}

// OpenSQLite opens (or creates) a SQLite database file.
func OpenSQLite(path string) (*DB, error) {
	// Transactions begin IMMEDIATE so concurrent writers queue on the busy
	// timeout instead of failing when a read lock is upgraded.
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return finishOpen(conn, DriverSQLite)
}

// OpenPostgres connects to a remote Postgres backend.
func OpenPostgres(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return finishOpen(conn, DriverPostgres)
}

func finishOpen(conn *sql.DB, driver Driver) (*DB, error) {
	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver reports which backend is in use.
func (db *DB) Driver() Driver {
	return db.driver
}

// Rebind rewrites "?" placeholders into the driver's native form.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExecContext runs a statement with rebound placeholders.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.Rebind(query), args...)
}

// QueryContext runs a query with rebound placeholders.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRowContext runs a single-row query with rebound placeholders.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.Rebind(query), args...)
}

// Bool converts a bool to the 0/1 integer both backends store.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
