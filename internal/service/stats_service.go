package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/repository"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

const defaultPageSize = 15

// StatsService считает статистику перекупа и аренды.
// Опорное время now передается явно, чтобы тесты могли подставить фиксированный момент.
type StatsService interface {
	Income(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error)
	Expenses(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error)
	Profit(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error)
	Summary(ctx context.Context, userID int64, period models.Period, now time.Time) (*models.ResellSummary, error)

	RentalIncomeByCar(ctx context.Context, carID uuid.UUID, period models.Period, now time.Time) (decimal.Decimal, error)
	RentalIncomeTotal(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error)

	SalesReport(ctx context.Context, userID int64, filter models.Period, deal models.DealFilter, page, pageSize int, now time.Time) (*models.SalesReport, error)
	RentalReport(ctx context.Context, userID int64, filter models.Period, now time.Time) (*models.RentalReport, error)
}

type statsService struct {
	items   repository.ItemRepository
	cars    repository.CarRepository
	rentals repository.RentalRepository
}

func NewStatsService(items repository.ItemRepository, cars repository.CarRepository, rentals repository.RentalRepository) StatsService {
	return &statsService{
		items:   items,
		cars:    cars,
		rentals: rentals,
	}
}

// Income сумма продаж пользователя за период, фильтр по дате продажи
func (s *statsService) Income(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error) {
	sales, err := s.items.GetSalesByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, sale := range sales {
		if timeutil.InPeriod(period, sale.SaleDate, now) {
			total = total.Add(sale.SalePrice)
		}
	}
	return total, nil
}

// Expenses сумма покупок за период. Считаются только проданные товары,
// фильтр по дате покупки: непроданный склад расходом не считается.
func (s *statsService) Expenses(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error) {
	items, err := s.items.GetSoldByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		if timeutil.InPeriod(period, item.PurchaseDate, now) {
			total = total.Add(item.PurchasePrice)
		}
	}
	return total, nil
}

// Profit всегда равен Income - Expenses, отдельного расчета нет,
// чтобы цифры не могли разойтись
func (s *statsService) Profit(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error) {
	income, err := s.Income(ctx, userID, period, now)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := s.Expenses(ctx, userID, period, now)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

func (s *statsService) Summary(ctx context.Context, userID int64, period models.Period, now time.Time) (*models.ResellSummary, error) {
	income, err := s.Income(ctx, userID, period, now)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses(ctx, userID, period, now)
	if err != nil {
		return nil, err
	}

	return &models.ResellSummary{
		Period:   period,
		Income:   income,
		Expenses: expenses,
		Profit:   income.Sub(expenses),
	}, nil
}

// RentalIncomeByCar доход с аренд конкретного автомобиля, фильтр по началу аренды
func (s *statsService) RentalIncomeByCar(ctx context.Context, carID uuid.UUID, period models.Period, now time.Time) (decimal.Decimal, error) {
	rentals, err := s.rentals.GetByCar(ctx, carID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, rental := range rentals {
		if timeutil.InPeriod(period, rental.RentalStart, now) {
			total = total.Add(rental.Income())
		}
	}
	return total, nil
}

// RentalIncomeTotal доход с аренд по всем автомобилям пользователя
func (s *statsService) RentalIncomeTotal(ctx context.Context, userID int64, period models.Period, now time.Time) (decimal.Decimal, error) {
	rentals, err := s.rentals.GetByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, rental := range rentals {
		if timeutil.InPeriod(period, rental.RentalStart, now) {
			total = total.Add(rental.Income())
		}
	}
	return total, nil
}

// SalesReport история продаж: фильтр по периоду, сортировка по режиму сделок,
// пагинация поверх отсортированного набора. Тоталы считаются до нарезки на страницы.
func (s *statsService) SalesReport(ctx context.Context, userID int64, filter models.Period, deal models.DealFilter, page, pageSize int, now time.Time) (*models.SalesReport, error) {
	sales, err := s.items.GetSalesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var filtered []models.SaleWithItem
	for _, sale := range sales {
		if timeutil.InPeriod(filter, sale.SaleDate, now) {
			filtered = append(filtered, sale)
		}
	}

	// три взаимоисключающих контракта сортировки
	switch deal {
	case models.DealBest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Profit().GreaterThan(filtered[j].Profit())
		})
	case models.DealWorst:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Profit().LessThan(filtered[j].Profit())
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].SaleDate.After(filtered[j].SaleDate)
		})
	}

	totalIncome := decimal.Zero
	totalProfit := decimal.Zero
	for _, sale := range filtered {
		totalIncome = totalIncome.Add(sale.SalePrice)
		totalProfit = totalProfit.Add(sale.Profit())
	}

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := len(filtered) / pageSize
	if len(filtered)%pageSize > 0 {
		totalPages++
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	records := make([]models.SaleRecord, 0, end-start)
	for _, sale := range filtered[start:end] {
		records = append(records, models.SaleRecord{
			ItemName:      sale.ItemName,
			SalePrice:     sale.SalePrice,
			PurchasePrice: sale.PurchasePrice,
			Profit:        sale.Profit(),
			SaleDate:      sale.SaleDate,
		})
	}

	return &models.SalesReport{
		Sales:       records,
		TotalIncome: totalIncome,
		TotalProfit: totalProfit,
		TotalSales:  len(filtered),
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}, nil
}

// RentalReport статистика автопарка: разбивка по машинам за период,
// тоталы и серия для графика фиксированной длины (day=24, week=7, all=30)
func (s *statsService) RentalReport(ctx context.Context, userID int64, filter models.Period, now time.Time) (*models.RentalReport, error) {
	// границы корзин графика считаются в московском времени
	now = timeutil.Normalize(now)

	rentals, err := s.rentals.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	carsCount, err := s.cars.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var filtered []models.RentalWithCar
	for _, rental := range rentals {
		if timeutil.InPeriod(filter, rental.RentalStart, now) {
			filtered = append(filtered, rental)
		}
	}

	report := &models.RentalReport{
		Period:      filter,
		TotalCars:   carsCount,
		TotalIncome: decimal.Zero,
	}

	byCar := make(map[uuid.UUID]*models.CarRentalSummary)
	for _, rental := range filtered {
		summary, ok := byCar[rental.CarID]
		if !ok {
			summary = &models.CarRentalSummary{CarName: rental.CarName}
			byCar[rental.CarID] = summary
		}
		summary.Rentals++
		summary.Hours += rental.Hours
		summary.TotalIncome = summary.TotalIncome.Add(rental.Income())

		report.TotalRentals++
		report.TotalIncome = report.TotalIncome.Add(rental.Income())
	}

	for _, summary := range byCar {
		report.Cars = append(report.Cars, *summary)
	}
	sort.Slice(report.Cars, func(i, j int) bool {
		return report.Cars[i].TotalIncome.GreaterThan(report.Cars[j].TotalIncome)
	})

	report.Chart = buildChart(filter, rentals, now)

	return report, nil
}

// buildChart серия для графика. Корзины существуют всегда, даже пустые:
// длина серии задается фильтром, а не данными. Прошлые (is_past) аренды
// попадают в корзину по своей задним числом проставленной дате начала.
func buildChart(filter models.Period, rentals []models.RentalWithCar, now time.Time) []models.ChartPoint {
	switch filter {
	case models.PeriodDay:
		points := make([]models.ChartPoint, 24)
		for h := 0; h < 24; h++ {
			points[h] = models.ChartPoint{Label: fmt.Sprintf("%02d:00", h), Value: decimal.Zero}
		}
		for _, rental := range rentals {
			start := timeutil.Normalize(rental.RentalStart)
			if timeutil.SameDay(start, now) {
				points[start.Hour()].Value = points[start.Hour()].Value.Add(rental.Income())
			}
		}
		return points
	case models.PeriodWeek:
		return buildDailyChart(rentals, now, 7, true)
	default:
		return buildDailyChart(rentals, now, 30, false)
	}
}

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// buildDailyChart последние days календарных дней, от старых к новым
func buildDailyChart(rentals []models.RentalWithCar, now time.Time, days int, withWeekday bool) []models.ChartPoint {
	points := make([]models.ChartPoint, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i-days+1)
		label := day.Format("02.01")
		if withWeekday {
			label = weekdayShort[day.Weekday()] + " " + label
		}
		points[i] = models.ChartPoint{Label: label, Value: decimal.Zero}

		for _, rental := range rentals {
			if timeutil.SameDay(rental.RentalStart, day) {
				points[i].Value = points[i].Value.Add(rental.Income())
			}
		}
	}
	return points
}

// PaybackPercent процент окупаемости автомобиля: доход/стоимость*100, не больше 100.
// Для нулевой стоимости возвращается 0, делить не на что.
func PaybackPercent(income, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	percent := income.Div(cost).Mul(decimal.NewFromInt(100))
	if percent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return percent
}
