package users

import (
	"context"

	"github.com/dmitrijs2005/userfeedback/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Exists reports whether any user matches username, password hash or email.
	Exists(ctx context.Context, username, passwordHash, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, username string) error
	SetAdmin(ctx context.Context, username string, isAdmin bool) error
}
