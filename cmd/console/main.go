package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"retail-console/internal/config"
	"retail-console/internal/db"
	"retail-console/internal/httpserver"
	"retail-console/internal/repository/audit"
	"retail-console/internal/service/catalog"
	"retail-console/internal/service/checkout"
	"retail-console/internal/session"
	"retail-console/internal/upstream"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[console] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	// The audit database is optional: without DB_DSN the console runs with
	// audit recording disabled.
	var (
		pool     *pgxpool.Pool
		recorder = audit.Discard()
	)
	if cfg.DBConnString != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect audit db: %v", err)
		}
		defer pool.Close()
		recorder = audit.NewPostgres(pool)
	} else {
		logger.Printf("DB_DSN not set, audit log disabled")
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		var err error
		sessions, err = session.NewRedis(cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
	} else {
		logger.Printf("REDIS_ADDR not set, using in-memory sessions")
		sessions = session.NewMemory(cfg.SessionTTL)
	}

	backend := upstream.New(cfg.UpstreamBaseURL, logger)
	products := catalog.New(backend, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Sessions: sessions,
		Upstream: backend,
		Catalog:  products,
		Audit:    recorder,
		Timing: checkout.Timing{
			PollInterval:    cfg.PollInterval,
			PollBackoff:     cfg.PollBackoff,
			PollAttempts:    cfg.PollAttempts,
			PaymentDeadline: cfg.PaymentDeadline,
			SuccessDisplay:  cfg.SuccessDisplay,
			FailureDisplay:  cfg.FailureDisplay,
			CancelDisplay:   cfg.CancelDisplay,
		},
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting console on %s, backend %s", cfg.HTTPAddr, cfg.UpstreamBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
