package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// GetOrCreate возвращает пользователя, создавая его при первом обращении
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT id, telegram_id, username, created_at FROM users WHERE telegram_id = $1`

	var user models.User
	err := r.db(ctx).QueryRow(ctx, query, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.Username, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.CreatedAt = timeutil.Normalize(user.CreatedAt)
	return &user, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	query := `
		INSERT INTO users (telegram_id, username, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, telegram_id, username, created_at
	`

	var created models.User
	err = r.db(ctx).QueryRow(ctx, query, telegramID, username, time.Now()).Scan(
		&created.ID, &created.TelegramID, &created.Username, &created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	created.CreatedAt = timeutil.Normalize(created.CreatedAt)
	return &created, nil
}
