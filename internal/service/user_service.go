package service

import (
	"context"
	"strings"

	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxStatusLen = 280

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Profile returns the caller's own account with their most recent posts.
func (s *UserService) Profile(ctx context.Context, id authz.Identity) (*models.User, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDWithPosts(ctx, id.UserID, 10)
}

// UpdateStatus replaces the caller's status line. Only the caller's own
// status can ever be changed.
func (s *UserService) UpdateStatus(ctx context.Context, id authz.Identity, status string) (*models.User, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, models.NewValidationError("Status must not be empty.")
	}
	if len(status) > maxStatusLen {
		return nil, models.NewValidationError("Status too long (max 280 characters).")
	}

	if err := s.userRepo.UpdateStatus(ctx, id.UserID, status); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id.UserID)
}
