package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchwatch/matchwatch/external/pandascore"
	"github.com/matchwatch/matchwatch/external/sportsdb"
	"github.com/matchwatch/matchwatch/external/telegram"
	"github.com/matchwatch/matchwatch/internal/config"
	"github.com/matchwatch/matchwatch/internal/domain/alert"
	"github.com/matchwatch/matchwatch/internal/domain/cache"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/infrastructure/repository/memory"
	"github.com/matchwatch/matchwatch/internal/infrastructure/repository/postgres"
	"github.com/matchwatch/matchwatch/internal/interfaces/httpapi"
	idgen "github.com/matchwatch/matchwatch/internal/platform/id"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/matchwatch/matchwatch/internal/usecase"
)

// App bundles the wired service with the handles main needs for lifecycle
// control: the HTTP server, the scheduler loop, and the storage to close on
// the way out.
type App struct {
	Server           *http.Server
	Scheduler        *usecase.AlertSchedulerService
	SchedulerEnabled bool

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger, slogger *slog.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if slogger == nil {
		slogger = slog.Default()
	}

	store, subs, markers, db, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Clients are always constructed. The ones whose credential is absent
	// report Enabled() false and the services answer for themselves.
	sportsClient := sportsdb.NewClient(sportsdb.ClientConfig{
		BaseURL:        cfg.SportsDBBaseURL,
		APIKey:         cfg.SportsDBAPIKey,
		Timeout:        cfg.SportsDBTimeout,
		MaxRetries:     cfg.SportsDBMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.SportsDBCircuit,
	})
	esportsClient := pandascore.NewClient(pandascore.ClientConfig{
		BaseURL:        cfg.PandaScoreBaseURL,
		Token:          cfg.PandaScoreToken,
		Timeout:        cfg.PandaScoreTimeout,
		MaxRetries:     cfg.PandaScoreMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.PandaScoreCircuit,
	})
	notifier := telegram.NewNotifier(telegram.NotifierConfig{
		BaseURL:         cfg.TelegramBaseURL,
		BotToken:        cfg.TelegramBotToken,
		Timeout:         cfg.TelegramTimeout,
		MaxRetries:      cfg.TelegramMaxRetries,
		DisplayLocation: cfg.DisplayLocation,
		Logger:          logger,
		CircuitBreaker:  cfg.TelegramCircuit,
	})

	matchData := usecase.NewMatchDataService(store, sportsClient, esportsClient, cfg.DisplayLocation, logger)
	analysis := usecase.NewAnalysisService(matchData, usecase.AnalysisConfig{
		SampleSize: cfg.AnalysisSampleSize,
	}, logger)
	subscriptions := usecase.NewSubscriptionService(subs, logger)
	scheduler := usecase.NewAlertSchedulerService(
		subs,
		markers,
		matchData,
		notifier,
		idgen.NewRandomGenerator(),
		usecase.AlertSchedulerConfig{
			TickInterval: cfg.AlertTick,
			Lead:         cfg.AlertLead,
		},
		logger,
	)
	status := usecase.NewStatusService(subs, markers, scheduler, map[string]usecase.CircuitReporter{
		"sportsdb":   sportsClient,
		"pandascore": esportsClient,
		"telegram":   notifier,
	}, logger)

	handler := httpapi.NewHandler(matchData, analysis, subscriptions, scheduler, status, slogger)
	router := httpapi.NewRouter(handler, slogger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Scheduler:        scheduler,
		SchedulerEnabled: cfg.SchedulerEnabled,
		db:               db,
	}, nil
}

// openStorage picks the persistence backend. The postgres branch pings the
// database, so a bad DB_URL fails the boot instead of the first request.
func openStorage(cfg config.Config) (cache.Store, subscription.Repository, alert.Repository, *sqlx.DB, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.NewCacheStore(), memory.NewSubscriptionRepository(), memory.NewAlertMarkerRepository(), nil, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	return postgres.NewCacheRepository(db), postgres.NewSubscriptionRepository(db), postgres.NewAlertMarkerRepository(db), db, nil
}

// Close releases whatever New opened. Safe on the memory driver where no
// database handle exists.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
