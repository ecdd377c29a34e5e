package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/droptoken-backend/internal/config"
	"github.com/rocketscienceinc/droptoken-backend/internal/metrics"
	"github.com/rocketscienceinc/droptoken-backend/internal/repository"
	"github.com/rocketscienceinc/droptoken-backend/internal/repository/storage"
	"github.com/rocketscienceinc/droptoken-backend/internal/usecase"
	"github.com/rocketscienceinc/droptoken-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until ctx is canceled or a termination signal arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	gameRepo, closeStorage, err := openGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeStorage(); err != nil {
			log.Error("could not close storage", "storage", conf.Storage, "error", err)
		}
	}()

	appMetrics := metrics.New(conf.Metrics.Namespace)
	gameUseCase := usecase.NewGameManager(logger, gameRepo, appMetrics)
	server := rest.New(logger, gameUseCase, appMetrics)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)
	if err = server.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shut down complete")

	return nil
}

// openGameRepository connects the configured storage and returns the repository with its closer.
func openGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Storage {
	case config.StoragePostgres:
		postgresStorage, err := storage.NewPostgresStorage(ctx, conf.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		if err = postgresStorage.Init(ctx); err != nil {
			_ = postgresStorage.Close()
			return nil, nil, fmt.Errorf("could not init postgres storage: %w", err)
		}

		return repository.NewPostgresGameRepository(postgresStorage.Connection), postgresStorage.Close, nil
	default:
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage.Connection), redisStorage.Close, nil
	}
}
