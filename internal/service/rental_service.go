package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/repository"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

var (
	ErrCarNotFound    = errors.New("автомобиль не найден")
	ErrRentalNotFound = errors.New("аренда не найдена")
	ErrBadEndTime     = errors.New("некорректное время окончания")
)

type RentalService interface {
	CreateCar(ctx context.Context, userID int64, input *models.CarCreate) (*models.Car, error)
	// ListCars автомобили пользователя с доходом за все время и процентом окупаемости
	ListCars(ctx context.Context, userID int64, now time.Time) ([]models.CarView, error)
	DeleteCar(ctx context.Context, userID int64, carID uuid.UUID) error

	CreateRental(ctx context.Context, userID int64, input *models.RentalCreate, now time.Time) (*models.Rental, error)
	ListActive(ctx context.Context, userID int64, now time.Time) ([]models.RentalWithCar, error)
	// UpdateRental правка цены или часов, доход пересчитывается из новых значений
	UpdateRental(ctx context.Context, userID int64, rentalID uuid.UUID, update *models.RentalUpdate) (*models.Rental, error)
}

type rentalService struct {
	cars    repository.CarRepository
	rentals repository.RentalRepository
	stats   StatsService
}

func NewRentalService(cars repository.CarRepository, rentals repository.RentalRepository, stats StatsService) RentalService {
	return &rentalService{cars: cars, rentals: rentals, stats: stats}
}

func (s *rentalService) CreateCar(ctx context.Context, userID int64, input *models.CarCreate) (*models.Car, error) {
	car := &models.Car{
		UserID:    userID,
		Name:      input.Name,
		Cost:      input.Cost,
		CreatedAt: time.Now(),
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *rentalService) ListCars(ctx context.Context, userID int64, now time.Time) ([]models.CarView, error) {
	cars, err := s.cars.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.CarView, 0, len(cars))
	for _, car := range cars {
		income, err := s.stats.RentalIncomeByCar(ctx, car.ID, models.PeriodAll, now)
		if err != nil {
			return nil, err
		}
		views = append(views, models.CarView{
			Car:            car,
			TotalIncome:    income,
			PaybackPercent: PaybackPercent(income, car.Cost),
		})
	}
	return views, nil
}

func (s *rentalService) DeleteCar(ctx context.Context, userID int64, carID uuid.UUID) error {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrCarNotFound
	}
	if car.UserID != userID {
		return ErrNotOwner
	}
	return s.cars.Delete(ctx, carID)
}

func (s *rentalService) CreateRental(ctx context.Context, userID int64, input *models.RentalCreate, now time.Time) (*models.Rental, error) {
	car, err := s.cars.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrCarNotFound
	}
	if car.UserID != userID {
		return nil, ErrNotOwner
	}

	start, end, err := ParseRentalWindow(input.EndTime, input.Hours, input.IsPast, now)
	if err != nil {
		return nil, err
	}

	rental := &models.Rental{
		UserID:       userID,
		CarID:        input.CarID,
		PricePerHour: input.PricePerHour,
		Hours:        input.Hours,
		RentalStart:  start,
		RentalEnd:    end,
		IsPast:       input.IsPast,
	}

	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) ListActive(ctx context.Context, userID int64, now time.Time) ([]models.RentalWithCar, error) {
	return s.rentals.GetActiveByUser(ctx, userID, now)
}

func (s *rentalService) UpdateRental(ctx context.Context, userID int64, rentalID uuid.UUID, update *models.RentalUpdate) (*models.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, ErrRentalNotFound
	}
	if rental.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := s.rentals.Update(ctx, rentalID, update); err != nil {
		return nil, err
	}
	return s.rentals.GetByID(ctx, rentalID)
}

// ParseRentalWindow вычисляет начало и конец аренды из пользовательского ввода.
// endTime либо "ЧЧ:ММ", либо "+N" часов от текущего времени.
// Для прошлой аренды (isPast) начало ставится на сегодняшние ЧЧ:ММ задним числом,
// конец = начало + hours. Для текущей начало = now, конец в прошлом переносится на завтра.
func ParseRentalWindow(endTime string, hours int, isPast bool, now time.Time) (time.Time, time.Time, error) {
	now = timeutil.Normalize(now)
	text := strings.TrimSpace(endTime)

	if isPast {
		hour, minute, err := parseClock(text)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, timeutil.Location())
		return start, start.Add(time.Duration(hours) * time.Hour), nil
	}

	if strings.HasPrefix(text, "+") {
		add, err := strconv.Atoi(strings.TrimSpace(text[1:]))
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadEndTime, endTime)
		}
		return now, now.Add(time.Duration(add) * time.Hour), nil
	}

	hour, minute, err := parseClock(text)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, timeutil.Location())
	if end.Before(now) {
		end = end.AddDate(0, 0, 1)
	}
	return now, end, nil
}

// parseClock "ЧЧ:ММ" либо "ЧЧ ММ", минуты можно опустить
func parseClock(text string) (int, int, error) {
	var parts []string
	switch {
	case strings.Contains(text, ":"):
		parts = strings.Split(text, ":")
	case strings.Contains(text, " "):
		parts = strings.Fields(text)
	default:
		parts = []string{text}
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadEndTime, text)
	}

	minute := 0
	if len(parts) > 1 {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadEndTime, text)
		}
	}
	return hour, minute, nil
}
