package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/users"
)

// fakeHasher produces distinct "salted" hashes: hash:<n>:<plaintext>.
type fakeHasher struct {
	n       int
	hashErr error
}

func (h *fakeHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.n++
	return fmt.Sprintf("hash:%d:%s", h.n, p), nil
}

func (h *fakeHasher) Verify(p, hash string) bool {
	parts := strings.SplitN(hash, ":", 3)
	return len(parts) == 3 && parts[0] == "hash" && parts[2] == p
}

type fakeUsersRepo struct {
	users map[string]*models.User
	gets  int

	getErr    error
	existsErr error
	createErr error
	deleteErr error
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{users: map[string]*models.User{}}
	for _, u := range us {
		r.users[u.Username] = u
	}
	return r
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *u
	f.users[u.Username] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Exists(ctx context.Context, username, hash, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.users {
		if u.Username == username || u.Password == hash || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	cur, ok := f.users[u.Username]
	if !ok {
		return common.ErrorNotFound
	}
	cur.Password, cur.Email, cur.FirstName, cur.LastName = u.Password, u.Email, u.FirstName, u.LastName
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, username string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[username]; !ok {
		return common.ErrorNotFound
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUsersRepo) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	u, ok := f.users[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

type fakeFeedbackRepo struct {
	items  map[int64]*models.Feedback
	nextID int64

	listErr   error
	createErr error
}

func newFakeFeedbackRepo(fs ...*models.Feedback) *fakeFeedbackRepo {
	r := &fakeFeedbackRepo{items: map[int64]*models.Feedback{}}
	for _, f := range fs {
		r.items[f.ID] = f
		if f.ID > r.nextID {
			r.nextID = f.ID
		}
	}
	return r
}

func (f *fakeFeedbackRepo) sorted(keep func(*models.Feedback) bool) []*models.Feedback {
	out := make([]*models.Feedback, 0)
	for _, it := range f.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	fb.ID = f.nextID
	f.items[fb.ID] = fb
	return fb, nil
}

func (f *fakeFeedbackRepo) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(*models.Feedback) bool { return true }), nil
}

func (f *fakeFeedbackRepo) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(it *models.Feedback) bool { return it.Username == username }), nil
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return it, nil
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, fb *models.Feedback) error {
	it, ok := f.items[fb.ID]
	if !ok {
		return common.ErrorNotFound
	}
	it.Title, it.Content = fb.Title, fb.Content
	return nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFeedbackRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedback.Repository     { return m.f }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var errDB = errors.New("db down")
