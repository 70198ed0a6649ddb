package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a storage handle, so the
// same service code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
