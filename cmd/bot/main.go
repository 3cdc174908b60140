package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vlasovdm/resell-tracker/internal/bot"
	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/database"
	"github.com/vlasovdm/resell-tracker/internal/repository"
	"github.com/vlasovdm/resell-tracker/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("Файл .env не найден, используются переменные окружения")
	}

	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal().Msg("BOT_TOKEN не задан")
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка подключения к базе данных")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Ошибка выполнения миграций")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	b, err := bot.New(cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка инициализации бота")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.Start(ctx)
	log.Info().Msg("Бот остановлен")
}
