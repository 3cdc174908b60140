package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Car struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Cost      decimal.Decimal `json:"cost" db:"cost"` // стоимость приобретения
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type Rental struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	CarID        uuid.UUID       `json:"car_id" db:"car_id"`
	PricePerHour decimal.Decimal `json:"price_per_hour" db:"price_per_hour"`
	Hours        int             `json:"hours" db:"hours"`
	RentalStart  time.Time       `json:"rental_start" db:"rental_start"`
	RentalEnd    time.Time       `json:"rental_end" db:"rental_end"`
	IsPast       bool            `json:"is_past" db:"is_past"`   // прошедшая аренда, внесенная задним числом
	Notified     bool            `json:"notified" db:"notified"` // флаг подсистемы напоминаний
}

// Income доход с аренды = цена за час * количество часов
func (r *Rental) Income() decimal.Decimal {
	return r.PricePerHour.Mul(decimal.NewFromInt(int64(r.Hours)))
}

// RentalWithCar аренда вместе с данными автомобиля (join при чтении из бд)
type RentalWithCar struct {
	Rental
	CarName string          `json:"car_name"`
	CarCost decimal.Decimal `json:"car_cost"`
}

type CarCreate struct {
	Name string          `json:"name" binding:"required"`
	Cost decimal.Decimal `json:"cost" binding:"required"`
}

type RentalCreate struct {
	CarID        uuid.UUID       `json:"car_id" binding:"required"`
	PricePerHour decimal.Decimal `json:"price_per_hour" binding:"required"`
	Hours        int             `json:"hours" binding:"required"`
	EndTime      string          `json:"end_time" binding:"required"` // "ЧЧ:ММ" либо "+N" часов от текущего времени
	IsPast       bool            `json:"is_past"`
}

type RentalUpdate struct {
	PricePerHour *decimal.Decimal `json:"price_per_hour"`
	Hours        *int             `json:"hours"`
}

// CarView автомобиль для списка с доходом и процентом окупаемости
type CarView struct {
	Car
	TotalIncome    decimal.Decimal `json:"total_income"`
	PaybackPercent decimal.Decimal `json:"payback_percent"` // доход/стоимость*100, не больше 100
}
