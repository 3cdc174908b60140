package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

// фейковые репозитории в памяти, чтобы гонять статистику без базы

type fakeItemRepo struct {
	items []models.Item
	sales []models.SaleWithItem
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.Item) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) GetUnsoldByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.UserID == userID && !item.Sold {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) GetSoldByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.UserID == userID && item.Sold {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) MarkSold(ctx context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Sold = true
		}
	}
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeItemRepo) CreateSale(ctx context.Context, sale *models.Sale) error { return nil }

func (f *fakeItemRepo) GetSalesByUser(ctx context.Context, userID int64) ([]models.SaleWithItem, error) {
	var out []models.SaleWithItem
	for _, sale := range f.sales {
		for _, item := range f.items {
			if item.ID == sale.ItemID && item.UserID == userID {
				out = append(out, sale)
			}
		}
	}
	return out, nil
}

type fakeCarRepo struct {
	cars []models.Car
}

func (f *fakeCarRepo) Create(ctx context.Context, car *models.Car) error {
	f.cars = append(f.cars, *car)
	return nil
}

func (f *fakeCarRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	for i := range f.cars {
		if f.cars[i].ID == id {
			car := f.cars[i]
			return &car, nil
		}
	}
	return nil, nil
}

func (f *fakeCarRepo) GetByUser(ctx context.Context, userID int64) ([]models.Car, error) {
	var out []models.Car
	for _, car := range f.cars {
		if car.UserID == userID {
			out = append(out, car)
		}
	}
	return out, nil
}

func (f *fakeCarRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, car := range f.cars {
		if car.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCarRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeRentalRepo struct {
	rentals []models.RentalWithCar
}

func (f *fakeRentalRepo) Create(ctx context.Context, rental *models.Rental) error { return nil }

func (f *fakeRentalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	for i := range f.rentals {
		if f.rentals[i].ID == id {
			r := f.rentals[i].Rental
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRentalRepo) GetByCar(ctx context.Context, carID uuid.UUID) ([]models.Rental, error) {
	var out []models.Rental
	for _, r := range f.rentals {
		if r.CarID == carID {
			out = append(out, r.Rental)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) GetByUser(ctx context.Context, userID int64) ([]models.RentalWithCar, error) {
	var out []models.RentalWithCar
	for _, r := range f.rentals {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) GetActiveByUser(ctx context.Context, userID int64, now time.Time) ([]models.RentalWithCar, error) {
	var out []models.RentalWithCar
	for _, r := range f.rentals {
		if r.UserID == userID && r.RentalEnd.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) Update(ctx context.Context, id uuid.UUID, update *models.RentalUpdate) error {
	return nil
}

func (f *fakeRentalRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// суббота 15.06.2024 12:00 по Москве
func statsNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, timeutil.Location())
}

// товар A куплен и продан вчера (100 -> 150), товар B куплен и продан сегодня (200 -> 180)
func resellFixture(userID int64) *fakeItemRepo {
	now := statsNow()
	yesterday := now.AddDate(0, 0, -1)

	itemA := models.Item{ID: uuid.New(), UserID: userID, Name: "Кроссовки", Category: models.CategoryThing,
		PurchasePrice: dec(100), PurchaseDate: yesterday, Sold: true}
	itemB := models.Item{ID: uuid.New(), UserID: userID, Name: "Часы", Category: models.CategoryAccessory,
		PurchasePrice: dec(200), PurchaseDate: now.Add(-2 * time.Hour), Sold: true}

	return &fakeItemRepo{
		items: []models.Item{itemA, itemB},
		sales: []models.SaleWithItem{
			{
				Sale:     models.Sale{ID: uuid.New(), ItemID: itemA.ID, SalePrice: dec(150), SaleDate: yesterday.Add(time.Hour)},
				ItemName: itemA.Name, Category: itemA.Category,
				PurchasePrice: itemA.PurchasePrice, PurchaseDate: itemA.PurchaseDate,
			},
			{
				Sale:     models.Sale{ID: uuid.New(), ItemID: itemB.ID, SalePrice: dec(180), SaleDate: now.Add(-time.Hour)},
				ItemName: itemB.Name, Category: itemB.Category,
				PurchasePrice: itemB.PurchasePrice, PurchaseDate: itemB.PurchaseDate,
			},
		},
	}
}

func newTestStats(items *fakeItemRepo, cars *fakeCarRepo, rentals *fakeRentalRepo) StatsService {
	if items == nil {
		items = &fakeItemRepo{}
	}
	if cars == nil {
		cars = &fakeCarRepo{}
	}
	if rentals == nil {
		rentals = &fakeRentalRepo{}
	}
	return NewStatsService(items, cars, rentals)
}

func TestStats_UnknownUserIsZero(t *testing.T) {
	svc := newTestStats(resellFixture(1), nil, nil)
	ctx := context.Background()

	summary, err := svc.Summary(ctx, 999, models.PeriodAll, statsNow())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.Income.IsZero() || !summary.Expenses.IsZero() || !summary.Profit.IsZero() {
		t.Errorf("по чужому пользователю должны быть нули, получили %+v", summary)
	}
}

func TestStats_Summary(t *testing.T) {
	svc := newTestStats(resellFixture(1), nil, nil)
	ctx := context.Background()
	now := statsNow()

	cases := []struct {
		period                   models.Period
		income, expenses, profit int64
	}{
		{models.PeriodAll, 330, 300, 30},
		{models.PeriodDay, 180, 200, -20},
		{models.PeriodWeek, 330, 300, 30},
		{models.PeriodMonth, 330, 300, 30},
	}

	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			summary, err := svc.Summary(ctx, 1, tc.period, now)
			if err != nil {
				t.Fatalf("Summary: %v", err)
			}
			if !summary.Income.Equal(dec(tc.income)) {
				t.Errorf("income = %s, want %d", summary.Income, tc.income)
			}
			if !summary.Expenses.Equal(dec(tc.expenses)) {
				t.Errorf("expenses = %s, want %d", summary.Expenses, tc.expenses)
			}
			if !summary.Profit.Equal(dec(tc.profit)) {
				t.Errorf("profit = %s, want %d", summary.Profit, tc.profit)
			}
		})
	}
}

// прибыль всегда сходится с доходом и расходом, считанными по отдельности
func TestStats_ProfitConsistency(t *testing.T) {
	svc := newTestStats(resellFixture(1), nil, nil)
	ctx := context.Background()
	now := statsNow()

	for _, p := range []models.Period{models.PeriodDay, models.PeriodWeek, models.PeriodMonth, models.PeriodAll} {
		income, err := svc.Income(ctx, 1, p, now)
		if err != nil {
			t.Fatalf("Income: %v", err)
		}
		expenses, err := svc.Expenses(ctx, 1, p, now)
		if err != nil {
			t.Fatalf("Expenses: %v", err)
		}
		profit, err := svc.Profit(ctx, 1, p, now)
		if err != nil {
			t.Fatalf("Profit: %v", err)
		}
		if !profit.Equal(income.Sub(expenses)) {
			t.Errorf("период %s: profit %s != income %s - expenses %s", p, profit, income, expenses)
		}
	}
}

// непроданный склад расходом не считается
func TestStats_UnsoldItemsNotCounted(t *testing.T) {
	repo := resellFixture(1)
	ctx := context.Background()
	now := statsNow()

	svc := newTestStats(repo, nil, nil)
	before, err := svc.Expenses(ctx, 1, models.PeriodAll, now)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}

	repo.items = append(repo.items, models.Item{
		ID: uuid.New(), UserID: 1, Name: "Гараж", Category: models.CategoryHouse,
		PurchasePrice: dec(5000), PurchaseDate: now, Sold: false,
	})

	after, err := svc.Expenses(ctx, 1, models.PeriodAll, now)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if !after.Equal(before) {
		t.Errorf("непроданный товар поменял расходы: %s -> %s", before, after)
	}
}

func TestSalesReport_DealOrdering(t *testing.T) {
	svc := newTestStats(resellFixture(1), nil, nil)
	ctx := context.Background()
	now := statsNow()

	// A: прибыль +50, B: прибыль -20
	best, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealBest, 1, 0, now)
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if len(best.Sales) != 2 {
		t.Fatalf("записей %d, want 2", len(best.Sales))
	}
	if best.Sales[0].ItemName != "Кроссовки" {
		t.Errorf("best: первой должна идти самая выгодная сделка, получили %q", best.Sales[0].ItemName)
	}

	worst, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealWorst, 1, 0, now)
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if worst.Sales[0].ItemName != "Часы" {
		t.Errorf("worst: первой должна идти самая убыточная сделка, получили %q", worst.Sales[0].ItemName)
	}

	// режим all сортирует по дате продажи, сначала последние
	all, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealAll, 1, 0, now)
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if all.Sales[0].ItemName != "Часы" {
		t.Errorf("all: первой должна идти последняя продажа, получили %q", all.Sales[0].ItemName)
	}
}

func TestSalesReport_TotalsIgnorePagination(t *testing.T) {
	svc := newTestStats(resellFixture(1), nil, nil)
	ctx := context.Background()

	report, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealAll, 1, 1, statsNow())
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if len(report.Sales) != 1 {
		t.Fatalf("на странице %d записей, want 1", len(report.Sales))
	}
	if !report.TotalIncome.Equal(dec(330)) {
		t.Errorf("total_income = %s, want 330", report.TotalIncome)
	}
	if !report.TotalProfit.Equal(dec(30)) {
		t.Errorf("total_profit = %s, want 30", report.TotalProfit)
	}
	if report.TotalSales != 2 {
		t.Errorf("total_sales = %d, want 2", report.TotalSales)
	}
	if report.TotalPages != 2 {
		t.Errorf("total_pages = %d, want 2", report.TotalPages)
	}
}

// склейка всех страниц дает полный набор без дырок и повторов
func TestSalesReport_PagesReassemble(t *testing.T) {
	now := statsNow()
	repo := &fakeItemRepo{}
	for i := 0; i < 7; i++ {
		item := models.Item{ID: uuid.New(), UserID: 1, Name: "Лот", Category: models.CategoryThing,
			PurchasePrice: dec(10), PurchaseDate: now.Add(-time.Duration(i+1) * time.Hour), Sold: true}
		repo.items = append(repo.items, item)
		repo.sales = append(repo.sales, models.SaleWithItem{
			Sale:     models.Sale{ID: uuid.New(), ItemID: item.ID, SalePrice: dec(int64(10 + i)), SaleDate: now.Add(-time.Duration(i) * time.Minute)},
			ItemName: item.Name, PurchasePrice: item.PurchasePrice, PurchaseDate: item.PurchaseDate,
		})
	}

	svc := newTestStats(repo, nil, nil)
	ctx := context.Background()

	full, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealBest, 1, 100, now)
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}

	var glued []models.SaleRecord
	for page := 1; ; page++ {
		report, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealBest, page, 3, now)
		if err != nil {
			t.Fatalf("SalesReport page %d: %v", page, err)
		}
		if report.TotalPages != 3 {
			t.Fatalf("total_pages = %d, want 3", report.TotalPages)
		}
		glued = append(glued, report.Sales...)
		if page >= report.TotalPages {
			break
		}
	}

	if len(glued) != len(full.Sales) {
		t.Fatalf("после склейки %d записей, want %d", len(glued), len(full.Sales))
	}
	for i := range glued {
		if !glued[i].SalePrice.Equal(full.Sales[i].SalePrice) {
			t.Errorf("позиция %d: %s != %s", i, glued[i].SalePrice, full.Sales[i].SalePrice)
		}
	}

	// страница за пределами набора пустая, без ошибки
	empty, err := svc.SalesReport(ctx, 1, models.PeriodAll, models.DealBest, 50, 3, now)
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if len(empty.Sales) != 0 {
		t.Errorf("страница за пределами набора должна быть пустой, записей %d", len(empty.Sales))
	}
}

func rentalFixture(userID int64) (*fakeCarRepo, *fakeRentalRepo) {
	now := statsNow()
	carA := models.Car{ID: uuid.New(), UserID: userID, Name: "Гранта", Cost: dec(500)}
	carB := models.Car{ID: uuid.New(), UserID: userID, Name: "Веста", Cost: dec(1000)}

	mk := func(car models.Car, price int64, hours int, start time.Time) models.RentalWithCar {
		return models.RentalWithCar{
			Rental: models.Rental{
				ID: uuid.New(), UserID: userID, CarID: car.ID,
				PricePerHour: dec(price), Hours: hours,
				RentalStart: start, RentalEnd: start.Add(time.Duration(hours) * time.Hour),
			},
			CarName: car.Name, CarCost: car.Cost,
		}
	}

	return &fakeCarRepo{cars: []models.Car{carA, carB}},
		&fakeRentalRepo{rentals: []models.RentalWithCar{
			mk(carA, 100, 2, now.Add(-3*time.Hour)),            // сегодня, 200
			mk(carA, 100, 4, now.AddDate(0, 0, -1)),            // вчера, 400
			mk(carB, 50, 3, now.Add(-time.Hour)),               // сегодня, 150
			mk(carB, 50, 10, now.AddDate(0, 0, -20)),           // давно, 500
		}}
}

func TestRentalReport_Totals(t *testing.T) {
	cars, rentals := rentalFixture(1)
	svc := newTestStats(nil, cars, rentals)
	ctx := context.Background()
	now := statsNow()

	report, err := svc.RentalReport(ctx, 1, models.PeriodAll, now)
	if err != nil {
		t.Fatalf("RentalReport: %v", err)
	}
	if report.TotalCars != 2 {
		t.Errorf("total_cars = %d, want 2", report.TotalCars)
	}
	if report.TotalRentals != 4 {
		t.Errorf("total_rentals = %d, want 4", report.TotalRentals)
	}
	if !report.TotalIncome.Equal(dec(1250)) {
		t.Errorf("total_income = %s, want 1250", report.TotalIncome)
	}

	// машины отсортированы по доходу, сначала самая доходная
	if len(report.Cars) != 2 {
		t.Fatalf("машин в разбивке %d, want 2", len(report.Cars))
	}
	if report.Cars[0].CarName != "Веста" || !report.Cars[0].TotalIncome.Equal(dec(650)) {
		t.Errorf("первая машина %q с доходом %s, want Веста 650", report.Cars[0].CarName, report.Cars[0].TotalIncome)
	}

	day, err := svc.RentalReport(ctx, 1, models.PeriodDay, now)
	if err != nil {
		t.Fatalf("RentalReport: %v", err)
	}
	if day.TotalRentals != 2 {
		t.Errorf("day total_rentals = %d, want 2", day.TotalRentals)
	}
	if !day.TotalIncome.Equal(dec(350)) {
		t.Errorf("day total_income = %s, want 350", day.TotalIncome)
	}
	// количество машин не зависит от фильтра
	if day.TotalCars != 2 {
		t.Errorf("day total_cars = %d, want 2", day.TotalCars)
	}
}

// длина серии графика задается фильтром, а не данными
func TestRentalReport_ChartLength(t *testing.T) {
	svc := newTestStats(nil, &fakeCarRepo{}, &fakeRentalRepo{})
	ctx := context.Background()
	now := statsNow()

	cases := []struct {
		filter models.Period
		want   int
	}{
		{models.PeriodDay, 24},
		{models.PeriodWeek, 7},
		{models.PeriodAll, 30},
	}

	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			report, err := svc.RentalReport(ctx, 1, tc.filter, now)
			if err != nil {
				t.Fatalf("RentalReport: %v", err)
			}
			if len(report.Chart) != tc.want {
				t.Errorf("точек графика %d, want %d", len(report.Chart), tc.want)
			}
			for _, p := range report.Chart {
				if !p.Value.IsZero() {
					t.Errorf("без аренд все точки нулевые, %q = %s", p.Label, p.Value)
				}
			}
		})
	}
}

func TestRentalReport_ChartBuckets(t *testing.T) {
	cars, rentals := rentalFixture(1)
	svc := newTestStats(nil, cars, rentals)
	ctx := context.Background()
	now := statsNow() // 12:00

	day, err := svc.RentalReport(ctx, 1, models.PeriodDay, now)
	if err != nil {
		t.Fatalf("RentalReport: %v", err)
	}
	// аренда с 09:00 на 200 и с 11:00 на 150
	if day.Chart[9].Label != "09:00" || !day.Chart[9].Value.Equal(dec(200)) {
		t.Errorf("корзина 09:00 = %s %s, want 200", day.Chart[9].Label, day.Chart[9].Value)
	}
	if !day.Chart[11].Value.Equal(dec(150)) {
		t.Errorf("корзина 11:00 = %s, want 150", day.Chart[11].Value)
	}
	if !day.Chart[0].Value.IsZero() {
		t.Errorf("пустая корзина должна быть нулем, получили %s", day.Chart[0].Value)
	}

	week, err := svc.RentalReport(ctx, 1, models.PeriodWeek, now)
	if err != nil {
		t.Fatalf("RentalReport: %v", err)
	}
	// последняя точка это сегодня, предпоследняя вчера
	if !week.Chart[6].Value.Equal(dec(350)) {
		t.Errorf("сегодняшняя корзина = %s, want 350", week.Chart[6].Value)
	}
	if !week.Chart[5].Value.Equal(dec(400)) {
		t.Errorf("вчерашняя корзина = %s, want 400", week.Chart[5].Value)
	}
	if week.Chart[6].Label != "Сб 15.06" {
		t.Errorf("метка сегодняшнего дня %q, want %q", week.Chart[6].Label, "Сб 15.06")
	}
}

func TestRentalIncomeByCar(t *testing.T) {
	cars, rentals := rentalFixture(1)
	svc := newTestStats(nil, cars, rentals)
	ctx := context.Background()
	now := statsNow()

	carB := cars.cars[1].ID
	income, err := svc.RentalIncomeByCar(ctx, carB, models.PeriodAll, now)
	if err != nil {
		t.Fatalf("RentalIncomeByCar: %v", err)
	}
	if !income.Equal(dec(650)) {
		t.Errorf("доход по машине = %s, want 650", income)
	}

	income, err = svc.RentalIncomeByCar(ctx, carB, models.PeriodDay, now)
	if err != nil {
		t.Fatalf("RentalIncomeByCar: %v", err)
	}
	if !income.Equal(dec(150)) {
		t.Errorf("доход по машине за день = %s, want 150", income)
	}
}

func TestPaybackPercent(t *testing.T) {
	cases := []struct {
		name         string
		income, cost int64
		want         string
	}{
		{"обычный случай", 600, 1000, "60"},
		{"окупилась с лихвой, кап на 100", 700, 500, "100"},
		{"ровно 100", 500, 500, "100"},
		{"нулевой доход", 0, 1000, "0"},
		{"нулевая стоимость", 300, 0, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PaybackPercent(dec(tc.income), dec(tc.cost))
			want, _ := decimal.NewFromString(tc.want)
			if !got.Equal(want) {
				t.Errorf("PaybackPercent(%d, %d) = %s, want %s", tc.income, tc.cost, got, tc.want)
			}
		})
	}
}
