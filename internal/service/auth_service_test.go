package service

import (
	"context"
	"testing"
	"time"

	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/models"
)

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func (f *fakeUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return f.users[telegramID], nil
}

func (f *fakeUserRepo) GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	if user, ok := f.users[telegramID]; ok {
		return user, nil
	}
	if f.users == nil {
		f.users = make(map[int64]*models.User)
	}
	f.nextID++
	user := &models.User{ID: f.nextID, TelegramID: telegramID, Username: username, CreatedAt: time.Now()}
	f.users[telegramID] = user
	return user, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "тестовыйсекрет",
		AccessTokenExpiration: time.Hour,
		AdminTelegramID:       42,
	}
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, testConfig())
	ctx := context.Background()

	token, err := svc.Login(ctx, 100500, "vasya")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TelegramID != 100500 {
		t.Errorf("telegram_id = %d, want 100500", claims.TelegramID)
	}
	if claims.UserID == 0 {
		t.Error("user_id должен быть заполнен")
	}

	// повторный вход не плодит пользователей
	token2, err := svc.Login(ctx, 100500, "vasya")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims2, err := svc.ValidateToken(token2)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims2.UserID != claims.UserID {
		t.Errorf("повторный вход выдал другого пользователя: %d != %d", claims2.UserID, claims.UserID)
	}
}

func TestAuthService_RejectsForeignToken(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, testConfig())
	other := NewAuthService(&fakeUserRepo{}, &config.Config{
		JWTSecret:             "другойсекрет",
		AccessTokenExpiration: time.Hour,
	})

	token, err := other.Login(context.Background(), 1, "petya")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("токен с чужой подписью должен отклоняться")
	}

	if _, err := svc.ValidateToken("не.токен.вовсе"); err == nil {
		t.Error("мусор вместо токена должен отклоняться")
	}
}

func TestAuthService_IsAdmin(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, testConfig())
	if !svc.IsAdmin(42) {
		t.Error("id из конфига должен быть админом")
	}
	if svc.IsAdmin(43) {
		t.Error("посторонний id не админ")
	}

	// при незаполненном admin id никто не админ, даже 0
	noAdmin := NewAuthService(&fakeUserRepo{}, &config.Config{JWTSecret: "s"})
	if noAdmin.IsAdmin(0) {
		t.Error("при пустом конфиге админов нет")
	}
}
