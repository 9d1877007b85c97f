package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// FollowService provides follow and unfollow business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes userID to the author named username and returns the
// author. Following an author twice is a successful no-op.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == userID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	created, err := s.followRepo.Follow(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		observability.SubscriptionChanges.WithLabelValues("follow").Inc()
	}
	return author, nil
}

// Unfollow removes the subscription if there is one and returns the author.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Unfollow(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if removed {
		observability.SubscriptionChanges.WithLabelValues("unfollow").Inc()
	}
	return author, nil
}
