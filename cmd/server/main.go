package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"clinica/internal/assets"
	"clinica/internal/invoice"
	"clinica/internal/operation"
	"clinica/internal/operationtype"
	"clinica/internal/patient"
	"clinica/internal/platform/config"
	"clinica/internal/platform/httpserver"
	"clinica/internal/platform/logger"
	"clinica/internal/platform/metrics"
	httptransport "clinica/internal/transport/http"
	"clinica/internal/user"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		patientStore   patient.Store
		operationStore operation.Store
		catalogStore   operationtype.Store
		invoiceStore   invoice.Store
		userStore      user.Store
	)

	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		for _, schema := range []string{
			patient.Schema, operation.Schema, operationtype.Schema,
			invoice.Schema, user.Schema,
		} {
			if _, err := pool.Exec(ctx, schema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		patientStore = patient.NewPostgresStore(pool)
		operationStore = operation.NewPostgresStore(pool)
		catalogStore = operationtype.NewPostgresStore(pool)
		invoiceStore = invoice.NewPostgresStore(pool)
		userStore = user.NewPostgresStore(pool)
		log.Info("using postgres stores")
	} else {
		patientStore = patient.NewInMemoryStore()
		operationStore = operation.NewInMemoryStore()
		catalogStore = operationtype.NewInMemoryStore()
		invoiceStore = invoice.NewInMemoryStore()
		userStore = user.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = client.Close() }()
		catalogStore = operationtype.NewCachedStore(catalogStore, client)
		log.Info("catalog cache enabled", "addr", cfg.RedisAddr)
	}

	var assetStorage assets.Storage
	if cfg.AssetsDir != "" {
		fsStorage, err := assets.NewFSStorage(cfg.AssetsDir)
		if err != nil {
			return fmt.Errorf("open asset storage: %w", err)
		}
		assetStorage = fsStorage
	} else {
		assetStorage = assets.NewInMemoryStorage()
	}

	patientService := patient.NewService(patientStore,
		patient.WithLogger(log), patient.WithMetrics(m))
	operationService := operation.NewService(operationStore, patientService, assetStorage,
		operation.WithLogger(log), operation.WithMetrics(m))
	catalogService := operationtype.NewService(catalogStore,
		operationtype.WithLogger(log), operationtype.WithMetrics(m))
	invoiceService := invoice.NewService(invoiceStore, operationService,
		invoice.WithLogger(log), invoice.WithMetrics(m))
	userService := user.NewService(userStore, user.WithLogger(log))

	router := httptransport.NewRouter(httptransport.Services{
		Patients:   httptransport.NewPatientHandler(patientService, log),
		Operations: httptransport.NewOperationHandler(operationService, log),
		Catalog:    httptransport.NewCatalogHandler(catalogService, log),
		Invoices:   httptransport.NewInvoiceHandler(invoiceService, log),
		Users:      httptransport.NewUserHandler(userService, log),
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
