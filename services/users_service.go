package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/repositories"
)

const usersCacheKey = "data:users"

type UsersService interface {
	AllUsers(ctx context.Context) ([]models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type usersService struct {
	userRepo repositories.UserRepository
	cache    *cache.Cache
}

func NewUsersService(userRepo repositories.UserRepository, appCache *cache.Cache) UsersService {
	return &usersService{
		userRepo: userRepo,
		cache:    appCache,
	}
}

func (s *usersService) AllUsers(ctx context.Context) ([]models.User, error) {
	if cached, ok := s.cache.Get(usersCacheKey); ok {
		return cached.([]models.User), nil
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	s.cache.Set(usersCacheKey, users, dataCacheTTL)
	return users, nil
}

// UserByEmail looks a user up case-insensitively in the cached directory.
func (s *usersService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
}
