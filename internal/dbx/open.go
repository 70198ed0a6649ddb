package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

// ParseDSN detects the dialect of dsn and returns the connection string the
// driver expects. SQLite DSNs ("sqlite:" prefix, "file:" URIs, ":memory:")
// always get foreign key enforcement switched on, otherwise ON DELETE CASCADE
// is silently ignored.
func ParseDSN(dsn string) (Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, withForeignKeys(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "sqlite:"):
		return DialectSQLite, withForeignKeys(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DialectSQLite, withForeignKeys(dsn)
	default:
		return DialectPostgres, dsn
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Open opens a pool for dsn and pings it.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, conn := ParseDSN(dsn)

	db, err := sql.Open(dialect.DriverName(), conn)
	if err != nil {
		return nil, dialect, fmt.Errorf("db open error: %w", err)
	}

	switch dialect {
	case DialectPostgres:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	case DialectSQLite:
		// a single writer; also keeps in-memory databases alive
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("db ping error: %w", err)
	}

	return db, dialect, nil
}
