package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ProductAPI/internal/config"
	"ProductAPI/internal/products"
	"ProductAPI/pkg/kit"
)

func main() {
	service := "products"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	store, err := products.NewStore(context.Background(), cfg.StoreBackend, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("init store failed", zap.Error(err), zap.String("backend", cfg.StoreBackend))
	}
	log.Info("store ready", zap.String("backend", cfg.StoreBackend))

	s := &products.Server{Store: store, Log: log}

	reg := prometheus.NewRegistry()
	h := products.NewHandler(s, products.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: reg,

		APIKey: cfg.APIKey,

		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,

		WriteLimit:         cfg.WriteRateLimit,
		WriteWindowSeconds: cfg.WriteRateWindowSeconds,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
