package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"gorm.io/gorm"
)

// UserService manages user profiles.
type UserService struct {
	userRepo repository.UserRepository
	indexer  search.Engine
}

func NewUserService(userRepo repository.UserRepository, indexer search.Engine) *UserService {
	return &UserService{userRepo: userRepo, indexer: indexer}
}

// GetProfile returns a user's public profile.
func (s *UserService) GetProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the profile fields to change. Nil fields are left as is.
type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	TechTitle *string
	Skills    *[]string
}

// UpdateProfile changes the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.TechTitle != nil {
		user.TechTitle = *input.TechTitle
	}
	if input.Skills != nil {
		user.Skills = cleanList(*input.Skills)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	indexUser(ctx, s.indexer, user)
	return user, nil
}
