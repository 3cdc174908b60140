package service

import (
	"context"

	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/repository"
)

type UserService interface {
	// GetOrCreate пользователь заводится при первом обращении, ошибкой это не является
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	return s.users.GetOrCreate(ctx, telegramID, username)
}

func (s *userService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}
