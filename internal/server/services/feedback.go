package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/repomanager"
)

type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m}
}

// Create stores a new entry for owner. The owner is not looked up first; an
// unknown owner fails on the foreign key.
func (s *FeedbackService) Create(ctx context.Context, title, content, owner string) (*models.Feedback, error) {
	f, err := s.repomanager.Feedback(s.db).Create(ctx, &models.Feedback{Title: title, Content: content, Username: owner})
	if err != nil {
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}
	return f, nil
}

// ListByOwner returns every entry when owner is an admin, otherwise the
// owner's own entries in creation order. An unknown owner counts as a
// regular user.
func (s *FeedbackService) ListByOwner(ctx context.Context, owner string) ([]*models.Feedback, error) {
	admin, err := s.isAdmin(ctx, owner)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Feedback(s.db)

	var items []*models.Feedback
	if admin {
		items, err = repo.ListAll(ctx)
	} else {
		items, err = repo.ListByOwner(ctx, owner)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	return items, nil
}

func (s *FeedbackService) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	f, err := s.repomanager.Feedback(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading feedback %d: %w", id, err)
	}
	return f, nil
}

// IsOwnedByOrAdmin reports whether acting may modify feedback id: admins
// always may, other users only when id is among their own entries.
func (s *FeedbackService) IsOwnedByOrAdmin(ctx context.Context, id int64, acting string) (bool, error) {
	admin, err := s.isAdmin(ctx, acting)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	items, err := s.repomanager.Feedback(s.db).ListByOwner(ctx, acting)
	if err != nil {
		return false, fmt.Errorf("error listing feedback: %w", err)
	}
	for _, f := range items {
		if f.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *FeedbackService) Update(ctx context.Context, id int64, title, content string) error {
	err := s.repomanager.Feedback(s.db).Update(ctx, &models.Feedback{ID: id, Title: title, Content: content})
	if err != nil {
		return fmt.Errorf("error updating feedback %d: %w", id, err)
	}
	return nil
}

func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Feedback(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting feedback %d: %w", id, err)
	}
	return nil
}

func (s *FeedbackService) isAdmin(ctx context.Context, username string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading user: %w", err)
	}
	return user.IsAdmin, nil
}
