package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vlasovdm/resell-tracker/internal/api"
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

	server := api.NewServer(cfg, services)

	log.Info().Str("port", cfg.Port).Msg("Запуск API сервера")
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Ошибка запуска сервера")
	}
}
