package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/eventbroker/nats"
	chirouter "github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/handlers/http/chi"
	uploadhandler "github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/repository/postgres"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/storage/disk"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/adapters/storage/minio"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/config"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/port"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/cleanup"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/lock"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/signature"
	"github.com/lidashuang1996/p6e-coat-file-sub000/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	//signature verifier registry, resolved once at startup
	registry := signature.NewRegistry()
	verifier, err := registry.Resolve(cfg.Upload.Signature)
	if err != nil {
		logger.Error("failed to resolve signature verifier", "error", err)
		os.Exit(1)
	}

	//hooks
	var hooks []port.Hook
	if cfg.NATS.URL != "" {
		publisher, pubErr := nats.NewPublisher(ctx, cfg.NATS, logger)
		if pubErr != nil {
			logger.Error("failed to init nats publisher", "error", pubErr)
			os.Exit(1)
		}
		defer publisher.Close()
		hooks = append(hooks, publisher)
	}

	//repositories and services
	sessionRepo := postgres.NewSQLSessionRepository(db)
	unitOfWork := postgres.NewUnitOfWork(db)

	locks := lock.NewManager(sessionRepo, cfg.Lock, logger)
	uploadService := upload.NewUploadService(unitOfWork, store, locks, verifier, hooks, cfg.Upload, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, store, cfg.Cleanup, logger)
	reaper := cleanup.NewScheduler(cleanupService, cfg.Cleanup, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, logger)

	router := chirouter.NewRouter(logger, uploadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init reaper tasks
	wg.Add(2)
	go func() {
		defer wg.Done()
		reaper.RunSessionSweep(ctx)
	}()
	go func() {
		defer wg.Done()
		reaper.RunChunkSweep(ctx)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ByteStorage, error) {
	switch cfg.Storage.Driver {
	case "disk":
		return disk.NewAdapter(cfg.Storage.BasePath, logger)
	case "minio":
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}
