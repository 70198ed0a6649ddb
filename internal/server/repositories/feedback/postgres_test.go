package feedback

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

var columns = []string{"id", "title", "content", "username"}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+feedback\s*\(title,\s*content,\s*username\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`).
		WithArgs("t", "c", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), &models.Feedback{Title: "t", Content: "c", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestCreate_ForeignKeyError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+feedback`).
		WillReturnError(errors.New("violates foreign key constraint"))

	_, err := repo.Create(context.Background(), &models.Feedback{Title: "t", Content: "c", Username: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: violates foreign key")
}

func TestListAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*title,\s*content,\s*username\s+FROM\s+feedback\s+ORDER\s+BY\s+id$`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "a", "x", "alice").
			AddRow(int64(2), "b", "y", "bob"))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[1].Username)
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*title,\s*content,\s*username\s+FROM\s+feedback\s+WHERE\s+username\s*=\s*\$1\s+ORDER\s+BY\s+id$`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "a", "x", "alice"))

	got, err := repo.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []*models.Feedback{{ID: 1, Title: "a", Content: "x", Username: "alice"}}, got)
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+feedback\s+WHERE`).WithArgs("nobody").WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM\s+feedback`).WillReturnError(errors.New("db down"))

		_, err := repo.ListAll(context.Background())
		assert.ErrorContains(t, err, "db error: db down")
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM\s+feedback`).
			WillReturnRows(sqlmock.NewRows(columns).AddRow("not-an-int", "a", "x", "alice"))

		_, err := repo.ListAll(context.Background())
		assert.ErrorContains(t, err, "scan error")
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM\s+feedback`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), "a", "x", "alice").
				RowError(0, errors.New("broken")))

		_, err := repo.ListAll(context.Background())
		assert.ErrorContains(t, err, "rows error")
	})
}

func TestGetByID(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*title,\s*content,\s*username\s+FROM\s+feedback\s+WHERE\s+id\s*=\s*\$1$`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "a", "x", "alice"))

		got, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 9)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+feedback\s+SET\s+title\s*=\s*\$2,\s*content\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(q).WithArgs(int64(1), "t2", "c2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(2), "t2", "c2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &models.Feedback{ID: 1, Title: "t2", Content: "c2"}))
	assert.ErrorIs(t, repo.Update(context.Background(), &models.Feedback{ID: 2, Title: "t2", Content: "c2"}), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	q := `(?s)^DELETE\s+FROM\s+feedback\s+WHERE\s+id\s*=\s*\$1$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(q).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(int64(3)).WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), 3), "db error: db down")
}
