package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/storefront/internal/adapter/cache"
	"github.com/example/storefront/internal/adapter/httpapi"
	"github.com/example/storefront/internal/adapter/natsstan"
	"github.com/example/storefront/internal/adapter/repo"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// store — хранилище товаров и заказов выбранного драйвера.
type store interface {
	domain.ProductRepository
	domain.OrderRepository
}

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Server, logger *zap.Logger) error {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	productCache := cache.NewMemoryProductCache()
	srv, ingest, err := buildServer(ctx, cfg, st, productCache, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Stan.Enabled {
		sub := &natsstan.Subscriber{
			ClusterID: cfg.Stan.ClusterID,
			ClientID:  cfg.Stan.ClientID,
			URL:       cfg.Stan.URL,
			Subject:   cfg.Stan.Subject,
			Durable:   cfg.Stan.Durable,
			Log:       logger.Named("stan"),
		}
		if err := sub.Subscribe(gctx, ingest.Execute); err != nil {
			return err
		}
	}

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Router, ReadHeaderTimeout: 5 * time.Second}
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Server) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "db connect")
		}
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo.NewPostgresRepo(pool), pool.Close, nil
	default:
		r, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	}
}

// buildServer восстанавливает кэш из хранилища, подгружает seed-файл и
// собирает HTTP-адаптер.
func buildServer(ctx context.Context, cfg config.Server, st store, c domain.ProductCache, logger *zap.Logger) (*httpapi.Server, usecase.ProcessIncomingProduct, error) {
	ingest := usecase.ProcessIncomingProduct{Repo: st, Cache: c}
	if err := (usecase.LoadCache{Repo: st, Cache: c, Log: logger}).Execute(ctx); err != nil {
		return nil, ingest, errors.Wrap(err, "load cache")
	}
	if cfg.SeedFile != "" {
		n, err := seed(ctx, cfg.SeedFile, ingest)
		if err != nil {
			return nil, ingest, err
		}
		logger.Info("catalog seeded", zap.String("file", cfg.SeedFile), zap.Int("products", n))
	}
	srv := httpapi.NewServer(
		usecase.ListProducts{Cache: c},
		usecase.GetProduct{Cache: c},
		usecase.PlaceOrder{Cache: c, Repo: st},
		logger.Named("http"),
	)
	return srv, ingest, nil
}

// seed читает файл в формате ответа GET /product/ и сохраняет каждый товар.
func seed(ctx context.Context, path string, ingest usecase.ProcessIncomingProduct) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "read seed file")
	}
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return 0, errors.Wrap(err, "decode seed file")
	}
	for i, item := range list.Items {
		if err := ingest.Execute(ctx, item); err != nil {
			return i, errors.Wrapf(err, "seed item %d", i)
		}
	}
	return len(list.Items), nil
}
