package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/repository"
)

var ErrInvalidToken = errors.New("невалидный токен")

type AuthService interface {
	// Login заводит пользователя при первом входе и выдает access-токен
	Login(ctx context.Context, telegramID int64, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	// IsAdmin единственная админская проверка в системе - по telegram id из конфига
	IsAdmin(telegramID int64) bool
}

type Claims struct {
	UserID     int64 `json:"user_id"`
	TelegramID int64 `json:"telegram_id"`
	jwt.RegisteredClaims
}

type authService struct {
	users  repository.UserRepository
	config *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, config: cfg}
}

func (s *authService) Login(ctx context.Context, telegramID int64, username string) (string, error) {
	user, err := s.users.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.AccessTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) IsAdmin(telegramID int64) bool {
	return s.config.AdminTelegramID != 0 && telegramID == s.config.AdminTelegramID
}
