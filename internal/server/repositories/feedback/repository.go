package feedback

import (
	"context"

	"github.com/dmitrijs2005/userfeedback/internal/server/models"
)

type Repository interface {
	// Create inserts the row and fills in the generated ID.
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	ListAll(ctx context.Context) ([]*models.Feedback, error)
	ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error)
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	Update(ctx context.Context, f *models.Feedback) error
	Delete(ctx context.Context, id int64) error
}
