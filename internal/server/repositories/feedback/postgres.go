// Package feedback provides the SQL-backed feedback repository.
package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
)

// PostgresRepository implements feedback storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (title, content, username)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, f.Title, f.Content, f.Username).Scan(&f.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	return r.list(ctx, `SELECT id, title, content, username FROM feedback ORDER BY id`)
}

// ListByOwner returns the user's feedback in insertion order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	return r.list(ctx, `SELECT id, title, content, username FROM feedback WHERE username = $1 ORDER BY id`, username)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Feedback, 0)
	for rows.Next() {
		var item models.Feedback
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.Username); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query := `SELECT id, title, content, username FROM feedback WHERE id = $1`

	f := &models.Feedback{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Title, &f.Content, &f.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) Update(ctx context.Context, f *models.Feedback) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE feedback SET title = $2, content = $3 WHERE id = $1`, f.ID, f.Title, f.Content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
