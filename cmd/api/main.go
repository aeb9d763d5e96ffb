package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchwatch/matchwatch/internal/app"
	"github.com/matchwatch/matchwatch/internal/config"
	"github.com/matchwatch/matchwatch/internal/observability"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	logger, shutdownObservability, err := observability.Setup(cfg, logging.NewJSON(cfg.LogLevel), slogger)
	if err != nil {
		slogger.Error("observability setup failed", "error", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	a, err := app.New(cfg, logger, slogger)
	if err != nil {
		slogger.Error("build app", "error", err)
		os.Exit(1)
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if a.SchedulerEnabled {
		go a.Scheduler.Run(schedulerCtx)
	} else {
		slogger.Info("alert scheduler disabled, ticks only run via the internal endpoint")
	}

	go func() {
		slogger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("graceful shutdown failed", "error", err)
	}
	stopScheduler()

	if err := a.Close(); err != nil {
		slogger.Error("close app", "error", err)
	}
	if err := shutdownObservability(shutdownCtx); err != nil {
		slogger.Error("observability shutdown failed", "error", err)
	}

	slogger.Info("http server stopped")
}

// slogLevel maps the zap-scale level onto slog so both logging stacks honor
// the same LOG_LEVEL.
func slogLevel(level logging.Level) slog.Level {
	switch {
	case level <= logging.LevelDebug:
		return slog.LevelDebug
	case level == logging.LevelInfo:
		return slog.LevelInfo
	case level == logging.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
