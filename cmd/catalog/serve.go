package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

func registerServeFlags(cmd *cobra.Command) {
	config.RegisterFlags(cmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log := kit.NewLogger(service, cfg.Debug)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Error("catalog load failed", zap.String("source", cfg.CatalogSource), zap.Error(err))
		return err
	}
	log.Info("catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Int("products", cat.Len()),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &catalog.Server{Catalog: cat, Log: log}
	if cfg.RateLimitPerMin > 0 {
		s.Limiter = kit.NewIPRateLimiter(cfg.RateLimitPerMin, time.Minute)
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		Debug:          cfg.Debug,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}

// loadCatalog builds the catalog before any listener exists; a failure here
// keeps the process from serving.
func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	switch cfg.CatalogSource {
	case config.SourceFile:
		return catalog.Load(ctx, catalog.FileSource{Path: cfg.CatalogPath})
	case config.SourcePostgres:
		return loadSQL(ctx, catalog.DriverPostgres, cfg.DatabaseURL)
	case config.SourceSQLite:
		return loadSQL(ctx, catalog.DriverSQLite, cfg.DatabaseURL)
	case config.SourceEmbedded:
		return catalog.Load(ctx, catalog.EmbeddedSource{})
	default:
		return nil, fmt.Errorf("%w: unknown catalog_source %q", config.ErrInvalidConfig, cfg.CatalogSource)
	}
}

func loadSQL(ctx context.Context, driver, dsn string) (*catalog.Catalog, error) {
	src, err := catalog.OpenSQLSource(driver, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return catalog.Load(ctx, src)
}
