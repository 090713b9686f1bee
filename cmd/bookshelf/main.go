package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Bookshelf/internal/bookshelf"
	"Bookshelf/internal/catalog"
	"Bookshelf/internal/config"
	"Bookshelf/internal/users"
	"Bookshelf/pkg/kit"
)

const service = "bookshelf"

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn("JWT_SECRET not set, using the shared default secret")
	}

	seed, err := catalog.LoadSeed(cfg.SeedPath)
	if err != nil {
		log.Fatal("load catalog seed failed", zap.Error(err), zap.String("path", cfg.SeedPath))
	}
	log.Info("catalog loaded", zap.Int("books", len(seed)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := bookshelf.NewHandler(
		bookshelf.Deps{
			Books:     catalog.NewMemStore(seed),
			Users:     users.NewMemDirectory(),
			JWTSecret: cfg.JWTSecret,
		},
		bookshelf.HTTPDeps{
			Log:                log,
			Service:            service,
			Registry:           reg,
			MetricsEnabled:     cfg.MetricsEnabled,
			MetricsToken:       cfg.MetricsToken,
			RegisterRatePerMin: cfg.RegisterRatePerMin,
			CORSOrigins:        cfg.CORSOrigins,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
