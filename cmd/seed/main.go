package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"staffdir/internal/cache"
	"staffdir/internal/config"
	"staffdir/internal/db"
	apperrors "staffdir/internal/errors"
	"staffdir/internal/model"
	"staffdir/internal/observability"
	"staffdir/internal/repository"
	"staffdir/internal/service"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		logger.Error("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close(gormDB)

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The cache is only used to drop a stale roster listing held by running servers.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	users := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient)
	user, err := users.CreateUser(ctx, service.CreateUserInput{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Role:     "admin",
	})
	switch {
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		logger.Info("admin already present, skipping", slog.String("email", cfg.Seed.AdminEmail))
	case err != nil:
		logger.Error("failed to seed admin", slog.Any("error", err))
		os.Exit(1)
	default:
		logger.Info("admin seeded", slog.String("id", user.ID), slog.String("email", user.Email))
	}
}
