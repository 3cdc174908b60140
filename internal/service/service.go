package service

import (
	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/repository"
)

type Services struct {
	Auth   AuthService
	User   UserService
	Item   ItemService
	Rental RentalService
	Stats  StatsService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	stats := NewStatsService(repos.Item, repos.Car, repos.Rental)

	return &Services{
		Auth:   NewAuthService(repos.User, cfg),
		User:   NewUserService(repos.User),
		Item:   NewItemService(repos.Item, repos.TxManager),
		Rental: NewRentalService(repos.Car, repos.Rental, stats),
		Stats:  stats,
	}
}
