package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category тип товара для перекупа, закрытый набор значений
type Category string

const (
	CategoryAccessory Category = "accessory" // Аксессуар
	CategoryThing     Category = "thing"     // Вещь
	CategoryApartment Category = "apartment" // Квартира
	CategoryHouse     Category = "house"     // Дом
	CategoryCar       Category = "car"       // Автомобиль
)

// ParseCategory возвращает категорию по строковому ключу, ok=false для неизвестных
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryAccessory, CategoryThing, CategoryApartment, CategoryHouse, CategoryCar:
		return Category(s), true
	}
	return "", false
}

// Title русское название категории для вывода пользователю
func (c Category) Title() string {
	switch c {
	case CategoryAccessory:
		return "Аксессуар"
	case CategoryThing:
		return "Вещь"
	case CategoryApartment:
		return "Квартира"
	case CategoryHouse:
		return "Дом"
	case CategoryCar:
		return "Автомобиль"
	}
	return string(c)
}

type Item struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Category      Category        `json:"category" db:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date" db:"purchase_date"`
	Comment       string          `json:"comment,omitempty" db:"comment"`
	PhotoFileID   string          `json:"photo_file_id,omitempty" db:"photo_file_id"`
	Sold          bool            `json:"sold" db:"sold"` // true тогда и только тогда, когда есть связанная продажа
}

// Sale продажа товара, один к одному с Item, создается только при продаже
type Sale struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ItemID    uuid.UUID       `json:"item_id" db:"item_id"`
	SalePrice decimal.Decimal `json:"sale_price" db:"sale_price"`
	SaleDate  time.Time       `json:"sale_date" db:"sale_date"`
}

// SaleWithItem продажа вместе с данными товара (join при чтении из бд)
type SaleWithItem struct {
	Sale
	ItemName      string          `json:"item_name"`
	Category      Category        `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
}

// Profit прибыль с конкретной продажи
func (s *SaleWithItem) Profit() decimal.Decimal {
	return s.SalePrice.Sub(s.PurchasePrice)
}

type ItemCreate struct {
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category" binding:"required"`
	PurchasePrice decimal.Decimal `json:"price" binding:"required"`
	Comment       string          `json:"comment"`
	PhotoFileID   string          `json:"photo_file_id"`
}

type ItemSell struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	SalePrice decimal.Decimal `json:"price" binding:"required"`
}
