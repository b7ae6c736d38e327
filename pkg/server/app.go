package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MorningScan/internal/usecase"
	pkgch "MorningScan/pkg/clickhouse"
	"MorningScan/pkg/config"
	xhttp "MorningScan/pkg/http"
	pkgkafka "MorningScan/pkg/kafka"
	applogger "MorningScan/pkg/logger"
	pkgqueue "MorningScan/pkg/queue"
	"MorningScan/pkg/util"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	pipeline    *usecase.ScanPipeline
	collector   *usecase.ArticleCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	queue       *pkgqueue.RedisQueue
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	Proc        *usecase.ArticleProcessor
}

// New creates a new App instance with all dependencies. collector,
// consumer and queue are optional; nil disables the corresponding mode.
func New(
	cfg *config.Config,
	pipeline *usecase.ScanPipeline,
	collector *usecase.ArticleCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	queue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		pipeline:  pipeline,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		queue:     queue,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the morning scan scheduler
	go a.schedule(ctx, l)
	l.Info("scheduler started",
		applogger.Int("run_hour", a.cfg.Scanner.RunHour),
		applogger.Int("run_minute", a.cfg.Scanner.RunMinute))

	// Start live stream collector if configured
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("stream collector started", applogger.String("url", a.cfg.Sources.MFN.WebSocketURL))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start queue worker if configured
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("queue start error", applogger.Error(err))
		} else {
			a.queue.StartRetryProcessor()
			l.Info("queue worker started")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// schedule fires one scan per day at the configured Stockholm time.
func (a *App) schedule(ctx context.Context, l *applogger.Logger) {
	for {
		now := util.NowStockholm()
		next := util.NextRun(now, a.cfg.Scanner.RunHour, a.cfg.Scanner.RunMinute)
		wait := next.Sub(now)
		l.Info("next scheduled scan",
			applogger.String("at", next.Format(time.RFC3339)),
			applogger.Duration("in", wait))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if !util.IsTradingDay(util.NowStockholm()) {
			l.Info("skipping scan on non-trading day")
			continue
		}
		if _, err := a.pipeline.Run(ctx, "scheduled", a.cfg.Scanner.MaxItems); err != nil {
			l.Error("scheduled scan failed", applogger.Error(err))
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop queue worker
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage)
	if a.Proc != nil {
		a.Proc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
