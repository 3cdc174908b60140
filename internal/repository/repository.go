package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	TxManager TxManager
	User      UserRepository
	Item      ItemRepository
	Car       CarRepository
	Rental    RentalRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		TxManager: NewTxManager(pool),
		User:      NewUserRepository(pool),
		Item:      NewItemRepository(pool),
		Car:       NewCarRepository(pool),
		Rental:    NewRentalRepository(pool),
	}
}
