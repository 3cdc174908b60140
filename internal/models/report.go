package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period определяет календарное окно для агрегации
type Period string

const (
	PeriodDay   Period = "day"   // текущий календарный день
	PeriodWeek  Period = "week"  // текущая ISO-неделя
	PeriodMonth Period = "month" // текущий календарный месяц
	PeriodAll   Period = "all"   // за все время
)

// ParsePeriod разбирает строку периода, неизвестные значения трактуются как all
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s)
	}
	return PeriodAll
}

// ParseTimeFilter как ParsePeriod, но без month — отчеты принимают только day/week/all
func ParseTimeFilter(s string) Period {
	switch Period(s) {
	case PeriodDay, PeriodWeek:
		return Period(s)
	}
	return PeriodAll
}

// DealFilter режим сортировки истории продаж
type DealFilter string

const (
	DealBest  DealFilter = "best"  // по прибыли, сначала самые выгодные
	DealWorst DealFilter = "worst" // по прибыли, сначала самые убыточные
	DealAll   DealFilter = "all"   // по дате продажи, сначала последние
)

// ParseDealFilter неизвестные значения трактуются как all
func ParseDealFilter(s string) DealFilter {
	switch DealFilter(s) {
	case DealBest, DealWorst:
		return DealFilter(s)
	}
	return DealAll
}

// ResellSummary сводка перекупа за период
type ResellSummary struct {
	Period   Period          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// SaleRecord строка истории продаж
type SaleRecord struct {
	ItemName      string          `json:"item_name"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Profit        decimal.Decimal `json:"profit"`
	SaleDate      time.Time       `json:"created_at"`
}

// SalesReport пагинированная история продаж,
// тоталы считаются по всему отфильтрованному набору, а не по странице
type SalesReport struct {
	Sales       []SaleRecord    `json:"sales"`
	TotalIncome decimal.Decimal `json:"total_income"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	TotalSales  int             `json:"total_sales"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
}

// CarRentalSummary агрегат аренд одного автомобиля за период
type CarRentalSummary struct {
	CarName     string          `json:"car_name"`
	Rentals     int             `json:"rentals"`
	Hours       int             `json:"hours"`
	TotalIncome decimal.Decimal `json:"total_income"`
}

// ChartPoint точка графика доходов
type ChartPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// RentalReport статистика автопарка плюс серия для графика.
// Длина Chart фиксирована фильтром: day=24, week=7, all=30
type RentalReport struct {
	Period       Period             `json:"period"`
	TotalCars    int                `json:"total_cars"` // всего машин у пользователя, без фильтра
	TotalRentals int                `json:"total_rentals"`
	TotalIncome  decimal.Decimal    `json:"total_income"`
	Cars         []CarRentalSummary `json:"cars"`
	Chart        []ChartPoint       `json:"chart"`
}
