package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vlasovdm/resell-tracker/internal/models"
)

// фейковый менеджер транзакций, просто выполняет функцию
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestItemService_Create(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewItemService(repo, fakeTxManager{})
	ctx := context.Background()

	item, err := svc.Create(ctx, 1, &models.ItemCreate{
		Name:          "Кроссовки",
		Category:      "thing",
		PurchasePrice: dec(100),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Sold {
		t.Error("новый товар не должен быть проданным")
	}
	if len(repo.items) != 1 {
		t.Fatalf("в репозитории %d товаров, want 1", len(repo.items))
	}

	_, err = svc.Create(ctx, 1, &models.ItemCreate{Name: "Лот", Category: "weird", PurchasePrice: dec(10)})
	if !errors.Is(err, ErrBadCategory) {
		t.Errorf("err = %v, want ErrBadCategory", err)
	}
}

func TestItemService_Sell(t *testing.T) {
	now := time.Now()
	item := models.Item{ID: uuid.New(), UserID: 1, Name: "Часы", Category: models.CategoryAccessory,
		PurchasePrice: dec(200), PurchaseDate: now}
	repo := &fakeItemRepo{items: []models.Item{item}}
	svc := NewItemService(repo, fakeTxManager{})
	ctx := context.Background()

	// чужой товар
	if _, err := svc.Sell(ctx, 2, item.ID, dec(250)); !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}

	// несуществующий товар
	if _, err := svc.Sell(ctx, 1, uuid.New(), dec(250)); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}

	sale, err := svc.Sell(ctx, 1, item.ID, dec(250))
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if !sale.SalePrice.Equal(dec(250)) {
		t.Errorf("sale_price = %s, want 250", sale.SalePrice)
	}
	if !repo.items[0].Sold {
		t.Error("после продажи товар должен быть помечен проданным")
	}

	// повторная продажа того же товара
	if _, err := svc.Sell(ctx, 1, item.ID, dec(300)); !errors.Is(err, ErrItemAlreadySold) {
		t.Errorf("err = %v, want ErrItemAlreadySold", err)
	}
}

func TestItemService_Delete(t *testing.T) {
	item := models.Item{ID: uuid.New(), UserID: 1, Name: "Лот", Category: models.CategoryThing,
		PurchasePrice: dec(10), PurchaseDate: time.Now()}
	repo := &fakeItemRepo{items: []models.Item{item}}
	svc := NewItemService(repo, fakeTxManager{})
	ctx := context.Background()

	if err := svc.Delete(ctx, 2, item.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, 1, uuid.New()); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
	if err := svc.Delete(ctx, 1, item.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
