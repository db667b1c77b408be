// Package server owns the application lifecycle: it starts the background
// collectors, the refresh scheduler and the HTTP server, then blocks until a
// shutdown signal and tears everything down in reverse order.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey22333/startup-sub001/internal/repository"
	"github.com/mikey22333/startup-sub001/internal/service/firehose"
	"github.com/mikey22333/startup-sub001/internal/usecase"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	pkgch "github.com/mikey22333/startup-sub001/pkg/clickhouse"
	"github.com/mikey22333/startup-sub001/pkg/config"
	xhttp "github.com/mikey22333/startup-sub001/pkg/http"
	pkgkafka "github.com/mikey22333/startup-sub001/pkg/kafka"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	handler   xhttp.Handler
	scheduler *usecase.Scheduler
	firehose  *firehose.Client

	store    *repository.SQLiteStore
	cacheSvc cache.Service
	chClient *pkgch.Client
	producer *pkgkafka.Producer

	httpServer *xhttp.Server
}

// New creates the App. The firehose client, ClickHouse client and Kafka
// producer may be nil when their features are disabled.
func New(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.Scheduler,
	fh *firehose.Client,
	store *repository.SQLiteStore,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		scheduler: scheduler,
		firehose:  fh,
		store:     store,
		cacheSvc:  cacheSvc,
		chClient:  chClient,
		producer:  producer,
	}
}

// Run starts everything and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.firehose != nil {
		go a.firehose.Run(ctx)
		a.log.Info("firehose collector started", logger.String("url", a.cfg.Providers.Firehose.URL))
	}

	if a.cfg.Scheduler.Enabled {
		go a.scheduler.Run(ctx)
		a.log.Info("refresh scheduler started",
			logger.Duration("scanInterval", a.cfg.Scheduler.ScanInterval))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start failed", logger.Error(err))
		return err
	}
	a.log.Info("http server listening", logger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown failed", logger.Error(err))
	}

	if a.firehose != nil {
		a.firehose.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close failed", logger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close failed", logger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close failed", logger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close failed", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
