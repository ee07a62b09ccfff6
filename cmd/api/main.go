package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/travlr-labs/travel-catalog-api/internal/adapters/httpapi"
	memidempotency "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/idempotency"
	memtripstore "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/tripstore"
	postgres "github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres"
	pgidempotency "github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres/idempotency"
	pgtripstore "github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres/tripstore"
	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/auth"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/cache"
	platformclock "github.com/travlr-labs/travel-catalog-api/internal/platform/clock"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/config"
	idempotencyport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/idempotency"
	tripstoreport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
	"github.com/travlr-labs/travel-catalog-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthModeDev:
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
		log.Warn("auth running in dev mode; do not use in production")
	default:
		tm, err := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenIssuer)
		if err != nil {
			log.Error("invalid auth config", "err", err)
			os.Exit(1)
		}
		authMW = httpapi.NewAuthMiddleware(tm)
	}

	var (
		store   tripstoreport.Store
		idem    idempotencyport.Store
		cleanup func()
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			log.Error("apply migrations", "err", err)
			os.Exit(1)
		}
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Error("connect postgres", "err", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		store = pgtripstore.NewStore(pool)
		idem = pgidempotency.NewStore(pool)
	default:
		store = memtripstore.NewStore()
		idem = memidempotency.NewStore()
	}
	if cleanup != nil {
		defer cleanup()
	}

	clk := platformclock.NewSystemClock()
	catalogCache := cache.New[[]domain.Trip](cfg.CacheTTL, clk)
	svc := catalog.NewService(store, catalogCache, clk, log)

	handler := httpapi.NewRouter(httpapi.NewServer(svc, idem), log, authMW)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func migrateUp(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
