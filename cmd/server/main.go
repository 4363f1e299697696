package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"staffdir/docs"
	"staffdir/internal/cache"
	"staffdir/internal/config"
	"staffdir/internal/db"
	"staffdir/internal/handler"
	"staffdir/internal/model"
	"staffdir/internal/observability"
	"staffdir/internal/repository"
	"staffdir/internal/router"
	"staffdir/internal/service"
	"staffdir/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// @title Staff Directory API
// @version 1.0
// @description Staff roster with login, CRUD and JPEG profile photos.
// @host localhost:8000
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.Warn("close database", slog.Any("error", err))
		}
	}()

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	photoStore, err := upload.NewPhotoStore(ctx, cfg.Photo)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, cfg.PhotoURL, logger)
	photoHandler := handler.NewPhotoHandler(photoStore, logger)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		logger,
		metrics,
		reg,
		upload.NewFilter(photoStore, cfg.Photo.MaxBytes),
		authHandler,
		userHandler,
		photoHandler,
	)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", ":"+cfg.ServerPort),
			slog.String("photo_storage", cfg.Photo.Storage),
			slog.String("swagger", cfg.PublicBaseURL+"/swagger/index.html"),
		)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
