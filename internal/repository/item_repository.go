package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetByUser(ctx context.Context, userID int64) ([]models.Item, error)
	// GetUnsoldByUser товары в наличии, для меню продажи
	GetUnsoldByUser(ctx context.Context, userID int64) ([]models.Item, error)
	// GetSoldByUser проданные товары, по ним считаются расходы
	GetSoldByUser(ctx context.Context, userID int64) ([]models.Item, error)
	MarkSold(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateSale(ctx context.Context, sale *models.Sale) error
	// GetSalesByUser все продажи пользователя вместе с данными товара
	GetSalesByUser(ctx context.Context, userID int64) ([]models.SaleWithItem, error)
}

type itemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, user_id, name, category, purchase_price, purchase_date, comment, photo_file_id, sold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.PurchaseDate.IsZero() {
		item.PurchaseDate = time.Now()
	}

	_, err := r.db(ctx).Exec(ctx, query,
		item.ID, item.UserID, item.Name, item.Category,
		item.PurchasePrice, item.PurchaseDate, item.Comment, item.PhotoFileID, item.Sold,
	)
	return err
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	query := `
		SELECT id, user_id, name, category, purchase_price, purchase_date, comment, photo_file_id, sold
		FROM items WHERE id = $1
	`

	var item models.Item
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.Name, &item.Category,
		&item.PurchasePrice, &item.PurchaseDate, &item.Comment, &item.PhotoFileID, &item.Sold,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.PurchaseDate = timeutil.Normalize(item.PurchaseDate)
	return &item, nil
}

func (r *itemRepository) GetByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	return r.queryItems(ctx, `
		SELECT id, user_id, name, category, purchase_price, purchase_date, comment, photo_file_id, sold
		FROM items WHERE user_id = $1
		ORDER BY purchase_date DESC
	`, userID)
}

func (r *itemRepository) GetUnsoldByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	return r.queryItems(ctx, `
		SELECT id, user_id, name, category, purchase_price, purchase_date, comment, photo_file_id, sold
		FROM items WHERE user_id = $1 AND sold = FALSE
		ORDER BY purchase_date DESC
	`, userID)
}

func (r *itemRepository) GetSoldByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	return r.queryItems(ctx, `
		SELECT id, user_id, name, category, purchase_price, purchase_date, comment, photo_file_id, sold
		FROM items WHERE user_id = $1 AND sold = TRUE
		ORDER BY purchase_date DESC
	`, userID)
}

func (r *itemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.Item, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.Category,
			&item.PurchasePrice, &item.PurchaseDate, &item.Comment, &item.PhotoFileID, &item.Sold,
		)
		if err != nil {
			return nil, err
		}
		item.PurchaseDate = timeutil.Normalize(item.PurchaseDate)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepository) MarkSold(ctx context.Context, id uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx, `UPDATE items SET sold = TRUE WHERE id = $1`, id)
	return err
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// продажа удалится каскадом
	_, err := r.db(ctx).Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return err
}

func (r *itemRepository) CreateSale(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, item_id, sale_price, sale_date)
		VALUES ($1, $2, $3, $4)
	`

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.SaleDate.IsZero() {
		sale.SaleDate = time.Now()
	}

	_, err := r.db(ctx).Exec(ctx, query, sale.ID, sale.ItemID, sale.SalePrice, sale.SaleDate)
	return err
}

func (r *itemRepository) GetSalesByUser(ctx context.Context, userID int64) ([]models.SaleWithItem, error) {
	query := `
		SELECT s.id, s.item_id, s.sale_price, s.sale_date,
		       i.name, i.category, i.purchase_price, i.purchase_date
		FROM sales s
		JOIN items i ON s.item_id = i.id
		WHERE i.user_id = $1
	`

	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.SaleWithItem
	for rows.Next() {
		var s models.SaleWithItem
		err := rows.Scan(
			&s.ID, &s.ItemID, &s.SalePrice, &s.SaleDate,
			&s.ItemName, &s.Category, &s.PurchasePrice, &s.PurchaseDate,
		)
		if err != nil {
			return nil, err
		}
		s.SaleDate = timeutil.Normalize(s.SaleDate)
		s.PurchaseDate = timeutil.Normalize(s.PurchaseDate)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
