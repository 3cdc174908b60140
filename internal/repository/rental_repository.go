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

type RentalRepository interface {
	Create(ctx context.Context, rental *models.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	GetByCar(ctx context.Context, carID uuid.UUID) ([]models.Rental, error)
	// GetByUser все аренды пользователя вместе с данными автомобиля
	GetByUser(ctx context.Context, userID int64) ([]models.RentalWithCar, error)
	// GetActiveByUser аренды, которые еще не закончились относительно now
	GetActiveByUser(ctx context.Context, userID int64, now time.Time) ([]models.RentalWithCar, error)
	Update(ctx context.Context, id uuid.UUID, update *models.RentalUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type rentalRepository struct {
	pool *pgxpool.Pool
}

func NewRentalRepository(pool *pgxpool.Pool) RentalRepository {
	return &rentalRepository{pool: pool}
}

func (r *rentalRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *rentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	query := `
		INSERT INTO rentals (id, user_id, car_id, price_per_hour, hours, rental_start, rental_end, is_past, notified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}
	if rental.RentalStart.IsZero() {
		rental.RentalStart = time.Now()
	}

	_, err := r.db(ctx).Exec(ctx, query,
		rental.ID, rental.UserID, rental.CarID, rental.PricePerHour, rental.Hours,
		rental.RentalStart, rental.RentalEnd, rental.IsPast, rental.Notified,
	)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	query := `
		SELECT id, user_id, car_id, price_per_hour, hours, rental_start, rental_end, is_past, notified
		FROM rentals WHERE id = $1
	`

	var rental models.Rental
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&rental.ID, &rental.UserID, &rental.CarID, &rental.PricePerHour, &rental.Hours,
		&rental.RentalStart, &rental.RentalEnd, &rental.IsPast, &rental.Notified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rental.RentalStart = timeutil.Normalize(rental.RentalStart)
	rental.RentalEnd = timeutil.Normalize(rental.RentalEnd)
	return &rental, nil
}

func (r *rentalRepository) GetByCar(ctx context.Context, carID uuid.UUID) ([]models.Rental, error) {
	query := `
		SELECT id, user_id, car_id, price_per_hour, hours, rental_start, rental_end, is_past, notified
		FROM rentals WHERE car_id = $1
		ORDER BY rental_start DESC
	`

	rows, err := r.db(ctx).Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []models.Rental
	for rows.Next() {
		var rental models.Rental
		err := rows.Scan(
			&rental.ID, &rental.UserID, &rental.CarID, &rental.PricePerHour, &rental.Hours,
			&rental.RentalStart, &rental.RentalEnd, &rental.IsPast, &rental.Notified,
		)
		if err != nil {
			return nil, err
		}
		rental.RentalStart = timeutil.Normalize(rental.RentalStart)
		rental.RentalEnd = timeutil.Normalize(rental.RentalEnd)
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) GetByUser(ctx context.Context, userID int64) ([]models.RentalWithCar, error) {
	return r.queryWithCar(ctx, `
		SELECT r.id, r.user_id, r.car_id, r.price_per_hour, r.hours, r.rental_start, r.rental_end, r.is_past, r.notified,
		       c.name, c.cost
		FROM rentals r
		JOIN cars c ON r.car_id = c.id
		WHERE r.user_id = $1
	`, userID)
}

func (r *rentalRepository) GetActiveByUser(ctx context.Context, userID int64, now time.Time) ([]models.RentalWithCar, error) {
	return r.queryWithCar(ctx, `
		SELECT r.id, r.user_id, r.car_id, r.price_per_hour, r.hours, r.rental_start, r.rental_end, r.is_past, r.notified,
		       c.name, c.cost
		FROM rentals r
		JOIN cars c ON r.car_id = c.id
		WHERE r.user_id = $1 AND r.rental_end > $2
		ORDER BY r.rental_end
	`, userID, now)
}

func (r *rentalRepository) queryWithCar(ctx context.Context, query string, args ...interface{}) ([]models.RentalWithCar, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []models.RentalWithCar
	for rows.Next() {
		var rc models.RentalWithCar
		err := rows.Scan(
			&rc.ID, &rc.UserID, &rc.CarID, &rc.PricePerHour, &rc.Hours,
			&rc.RentalStart, &rc.RentalEnd, &rc.IsPast, &rc.Notified,
			&rc.CarName, &rc.CarCost,
		)
		if err != nil {
			return nil, err
		}
		rc.RentalStart = timeutil.Normalize(rc.RentalStart)
		rc.RentalEnd = timeutil.Normalize(rc.RentalEnd)
		rentals = append(rentals, rc)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) Update(ctx context.Context, id uuid.UUID, update *models.RentalUpdate) error {
	query := `
		UPDATE rentals SET
			price_per_hour = COALESCE($2, price_per_hour),
			hours = COALESCE($3, hours)
		WHERE id = $1
	`

	_, err := r.db(ctx).Exec(ctx, query, id, update.PricePerHour, update.Hours)
	return err
}

func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	return err
}
