// Package services contains server-side business logic. UserService covers
// registration, login checks and account maintenance; FeedbackService covers
// feedback CRUD and the owner-or-admin rule.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/server/credentials"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/users"
)

// Registration carries the fields of a new or replacement account.
// Password is plaintext; it is hashed before it reaches storage.
type Registration struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      credentials.Hasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h credentials.Hasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: h}
}

// Register hashes the password and creates the user. It returns
// common.ErrorAlreadyExists when a user with the same username, the same
// stored hash or the same email exists. The check and the insert are separate
// statements; the schema constraints catch a concurrent duplicate.
func (s *UserService) Register(ctx context.Context, r Registration) (*models.User, error) {
	return s.register(ctx, s.repomanager.Users(s.db), r)
}

func (s *UserService) register(ctx context.Context, repo users.Repository, r Registration) (*models.User, error) {
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	exists, err := repo.Exists(ctx, r.Username, hash, r.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	user := &models.User{
		Username:  r.Username,
		Password:  hash,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches, or
// common.ErrorUnauthorized when the user is unknown or the password is wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error loading user %q: %w", username, err)
	}
	return user, nil
}

// Update replaces the account named from with to. A changed username deletes
// the old account, together with its feedback, and registers to as a new
// one; both steps share a transaction, so a rejected registration keeps the
// old account. Otherwise the profile is overwritten in place.
func (s *UserService) Update(ctx context.Context, from string, to Registration) error {
	if to.Username != from {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Users(tx)
			if err := repo.Delete(ctx, from); err != nil {
				return fmt.Errorf("error deleting user %q: %w", from, err)
			}
			_, err := s.register(ctx, repo, to)
			return err
		})
	}

	hash, err := s.hasher.Hash(to.Password)
	if err != nil {
		return err
	}
	err = s.repomanager.Users(s.db).UpdateProfile(ctx, &models.User{
		Username:  from,
		Password:  hash,
		Email:     to.Email,
		FirstName: to.FirstName,
		LastName:  to.LastName,
	})
	if err != nil {
		return fmt.Errorf("error updating user %q: %w", from, err)
	}
	return nil
}

// Delete removes the user and, through the schema cascade, its feedback.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, username); err != nil {
		return fmt.Errorf("error deleting user %q: %w", username, err)
	}
	return nil
}

func (s *UserService) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	if err := s.repomanager.Users(s.db).SetAdmin(ctx, username, isAdmin); err != nil {
		return fmt.Errorf("error updating user %q: %w", username, err)
	}
	return nil
}
