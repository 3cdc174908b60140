package models

import (
	"time"
)

type User struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"telegram_id"` // идентификатор из Telegram, по нему ищем пользователя везде
	Username   string    `json:"username,omitempty" db:"username"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
