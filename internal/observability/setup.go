package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/matchwatch/matchwatch/internal/config"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
)

// Setup initializes every optional telemetry backend in one pass: the Better
// Stack log tee, the Uptrace OTel providers, the Pyroscope profiler and the
// pprof listener. It returns the possibly wrapped application logger plus a
// shutdown that tears the chain down in reverse order. Each backend stays a
// no-op unless its env gate is set.
func Setup(cfg config.Config, baseLogger *logging.Logger, slogger *slog.Logger) (*logging.Logger, func(context.Context) error, error) {
	if baseLogger == nil {
		baseLogger = logging.NewJSON(cfg.LogLevel)
	}
	if slogger == nil {
		slogger = slog.Default()
	}

	logger, stopBetterStack, err := InitBetterStackLogger(cfg, baseLogger)
	if err != nil {
		return nil, nil, err
	}

	stopUptrace, err := InitUptrace(cfg, logger)
	if err != nil {
		_ = stopBetterStack(context.Background())
		return nil, nil, err
	}

	stopPyroscope, err := InitPyroscope(cfg, slogger)
	if err != nil {
		_ = stopUptrace(context.Background())
		_ = stopBetterStack(context.Background())
		return nil, nil, err
	}

	pprofSrv, err := StartPprofServer(cfg, slogger)
	if err != nil {
		_ = stopPyroscope()
		_ = stopUptrace(context.Background())
		_ = stopBetterStack(context.Background())
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		var firstErr error
		if err := StopPprofServer(pprofSrv, slogger, 5*time.Second); err != nil {
			firstErr = err
		}
		if err := stopPyroscope(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := stopUptrace(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := stopBetterStack(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	return logger, shutdown, nil
}
