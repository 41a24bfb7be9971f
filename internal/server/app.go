// Package server wires the upload gateway together: configuration, logging,
// the account store, object storage, metrics and the HTTP server, and runs
// it until the process is signalled.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/accounts"
	"github.com/dmitrijs2005/csvdrop/internal/server/config"
	"github.com/dmitrijs2005/csvdrop/internal/server/metrics"
	"github.com/dmitrijs2005/csvdrop/internal/server/rest"
	"github.com/dmitrijs2005/csvdrop/internal/server/storage"
	"github.com/dmitrijs2005/csvdrop/internal/server/uploads"
	"github.com/dmitrijs2005/csvdrop/web"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	handler     *rest.Handler
	rateLimiter *rest.RateLimiter
	collector   *metrics.Collector
	registry    *prometheus.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	store, err := storage.NewS3Store(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	return newApp(c, logger, store), nil
}

func newApp(c *config.Config, logger logging.Logger, store storage.ObjectStore) *App {

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	as := accounts.NewService(accounts.NewMemoryRepository(), c, logger)
	us := uploads.NewService(store, c, logger)

	return &App{
		config:      c,
		logger:      logger,
		handler:     rest.NewHandler(as, us, collector, logger),
		rateLimiter: rest.NewRateLimiter(c.AuthRatePerMinute, logger),
		collector:   collector,
		registry:    registry,
	}
}

func (app *App) router() http.Handler {
	return rest.NewRouter(&rest.RouterDeps{
		Handler:           app.handler,
		RateLimiter:       app.rateLimiter,
		CORSAllowedOrigin: app.config.CORSAllowedOrigin,
		Logger:            app.logger,
		Metrics:           app.collector,
		Gatherer:          app.registry,
		Static:            web.Static(),
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.router(), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "inline_uploads", app.config.InlineUploads, "bucket", app.config.S3Bucket)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.rateLimiter.Stop()
	app.logger.Info(ctx, "App stopped")
}
