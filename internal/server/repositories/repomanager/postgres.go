// Package repomanager provides the SQL RepositoryManager, wiring repository
// constructors to the embedded goose migrations of the active dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/server/migrations"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite; the repositories
// share one SQL text and only the migrations differ.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *SQLRepositoryManager) Feedback(db dbx.DBTX) feedback.Repository {
	return feedback.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseDialect, dir := "postgres", "postgres"
	if m.dialect == dbx.DialectSQLite {
		gooseDialect, dir = "sqlite3", "sqlite"
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for dialect.
func NewRepositoryManager(dialect dbx.Dialect) RepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}
