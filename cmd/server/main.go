package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/order"
	"storefront/internal/storage"
	"storefront/internal/stream"
	"storefront/pkg/kit"
)

func main() {
	service := "storefront"
	cfg := config.Load()

	log := kit.NewLogger(service, cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	gw, err := newGateway(ctx, cfg, log)
	if err != nil {
		log.Fatal("init storage failed", zap.Error(err))
	}

	broker := stream.NewBroker(log, reg)

	cat := catalog.NewStore(gw, broker, log)
	if err := cat.Load(ctx); err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}

	ledger := order.NewLedger(gw, broker, log)
	if err := ledger.Load(ctx); err != nil {
		log.Fatal("load orders failed", zap.Error(err))
	}

	s := &api.Server{
		Catalog:  cat,
		Orders:   ledger,
		Sessions: auth.NewSessions(cfg.AdminPassword, cfg.SessionTTL),
		Broker:   broker,
		Log:      log,
	}

	h := api.NewHandler(s, api.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Gateway, error) {
	if cfg.StorageDriver == config.DriverPostgres {
		return storage.NewPostgresGateway(ctx, cfg.DatabaseURL, log)
	}
	return storage.NewFileGateway(cfg.DataDir, log), nil
}
