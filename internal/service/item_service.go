package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/repository"
)

var (
	ErrItemNotFound    = errors.New("товар не найден")
	ErrItemAlreadySold = errors.New("товар уже продан")
	ErrNotOwner        = errors.New("объект принадлежит другому пользователю")
	ErrBadCategory     = errors.New("неизвестная категория")
)

type ItemService interface {
	Create(ctx context.Context, userID int64, input *models.ItemCreate) (*models.Item, error)
	List(ctx context.Context, userID int64) ([]models.Item, error)
	ListUnsold(ctx context.Context, userID int64) ([]models.Item, error)
	// Sell помечает товар проданным и создает продажу одной транзакцией
	Sell(ctx context.Context, userID int64, itemID uuid.UUID, salePrice decimal.Decimal) (*models.Sale, error)
	Delete(ctx context.Context, userID int64, itemID uuid.UUID) error
}

type itemService struct {
	items repository.ItemRepository
	txm   repository.TxManager
}

func NewItemService(items repository.ItemRepository, txm repository.TxManager) ItemService {
	return &itemService{items: items, txm: txm}
}

func (s *itemService) Create(ctx context.Context, userID int64, input *models.ItemCreate) (*models.Item, error) {
	category, ok := models.ParseCategory(input.Category)
	if !ok {
		return nil, ErrBadCategory
	}

	item := &models.Item{
		UserID:        userID,
		Name:          input.Name,
		Category:      category,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  time.Now(),
		Comment:       input.Comment,
		PhotoFileID:   input.PhotoFileID,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, userID int64) ([]models.Item, error) {
	return s.items.GetByUser(ctx, userID)
}

func (s *itemService) ListUnsold(ctx context.Context, userID int64) ([]models.Item, error) {
	return s.items.GetUnsoldByUser(ctx, userID)
}

func (s *itemService) Sell(ctx context.Context, userID int64, itemID uuid.UUID, salePrice decimal.Decimal) (*models.Sale, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	if item.Sold {
		return nil, ErrItemAlreadySold
	}

	sale := &models.Sale{
		ItemID:    itemID,
		SalePrice: salePrice,
		SaleDate:  time.Now(),
	}

	// sold == true строго вместе с записью о продаже
	err = s.txm.WithTx(ctx, func(ctx context.Context) error {
		if err := s.items.MarkSold(ctx, itemID); err != nil {
			return err
		}
		return s.items.CreateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *itemService) Delete(ctx context.Context, userID int64, itemID uuid.UUID) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return s.items.Delete(ctx, itemID)
}
