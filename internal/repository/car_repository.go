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

type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	GetByUser(ctx context.Context, userID int64) ([]models.Car, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carRepository struct {
	pool *pgxpool.Pool
}

func NewCarRepository(pool *pgxpool.Pool) CarRepository {
	return &carRepository{pool: pool}
}

func (r *carRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	query := `
		INSERT INTO cars (id, user_id, name, cost, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	if car.CreatedAt.IsZero() {
		car.CreatedAt = time.Now()
	}

	_, err := r.db(ctx).Exec(ctx, query, car.ID, car.UserID, car.Name, car.Cost, car.CreatedAt)
	return err
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	query := `SELECT id, user_id, name, cost, created_at FROM cars WHERE id = $1`

	var car models.Car
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&car.ID, &car.UserID, &car.Name, &car.Cost, &car.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	car.CreatedAt = timeutil.Normalize(car.CreatedAt)
	return &car, nil
}

func (r *carRepository) GetByUser(ctx context.Context, userID int64) ([]models.Car, error) {
	query := `
		SELECT id, user_id, name, cost, created_at
		FROM cars WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var car models.Car
		if err := rows.Scan(&car.ID, &car.UserID, &car.Name, &car.Cost, &car.CreatedAt); err != nil {
			return nil, err
		}
		car.CreatedAt = timeutil.Normalize(car.CreatedAt)
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func (r *carRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM cars WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// аренды удалятся каскадом
	_, err := r.db(ctx).Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}
