package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
)

// CircuitReporter exposes one upstream client's circuit breaker state.
type CircuitReporter interface {
	CircuitState() string
}

// ComponentStatus is one upstream dependency's health snapshot.
type ComponentStatus struct {
	Name    string `json:"name"`
	Circuit string `json:"circuit"`
}

// SchedulerStatus summarizes the alert loop since process start.
type SchedulerStatus struct {
	TickCount  int64       `json:"tick_count"`
	AlertsSent int64       `json:"alerts_sent"`
	LastTick   *TickReport `json:"last_tick,omitempty"`
}

// StatusReport is the service snapshot served to operators.
type StatusReport struct {
	Status        string            `json:"status"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Subscribers   int               `json:"subscribers"`
	AlertsLast24h int               `json:"alerts_last_24h"`
	Scheduler     SchedulerStatus   `json:"scheduler"`
	Components    []ComponentStatus `json:"components,omitempty"`
}

// StatusService aggregates the operator-facing snapshot. Store reads that
// fail degrade their counter to zero; the snapshot itself always renders.
type StatusService struct {
	subs       subscription.Repository
	markers    alert.Repository
	scheduler  *AlertSchedulerService
	components map[string]CircuitReporter
	logger     *logging.Logger
	startedAt  time.Time
	now        func() time.Time
}

func NewStatusService(
	subs subscription.Repository,
	markers alert.Repository,
	scheduler *AlertSchedulerService,
	components map[string]CircuitReporter,
	logger *logging.Logger,
) *StatusService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusService{
		subs:       subs,
		markers:    markers,
		scheduler:  scheduler,
		components: components,
		logger:     logger,
		startedAt:  time.Now(),
		now:        time.Now,
	}
}

// Status builds the current snapshot.
func (s *StatusService) Status(ctx context.Context) StatusReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatusService.Status")
	defer span.End()

	now := s.now()
	report := StatusReport{
		Status:        "ok",
		UptimeSeconds: int64(now.Sub(s.startedAt).Seconds()),
	}

	if s.subs != nil {
		count, err := s.subs.Count(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "subscriber count unavailable", "error", err)
		} else {
			report.Subscribers = count
		}
	}

	if s.markers != nil {
		count, err := s.markers.CountSince(ctx, now.Add(-24*time.Hour))
		if err != nil {
			s.logger.WarnContext(ctx, "alert count unavailable", "error", err)
		} else {
			report.AlertsLast24h = count
		}
	}

	if s.scheduler != nil {
		report.Scheduler = SchedulerStatus{
			TickCount:  s.scheduler.TickCount(),
			AlertsSent: s.scheduler.AlertsDispatched(),
		}
		if last, ok := s.scheduler.LastReport(); ok {
			report.Scheduler.LastTick = &last
		}
	}

	if len(s.components) > 0 {
		report.Components = make([]ComponentStatus, 0, len(s.components))
		for name, reporter := range s.components {
			if reporter == nil {
				continue
			}
			report.Components = append(report.Components, ComponentStatus{
				Name:    name,
				Circuit: reporter.CircuitState(),
			})
		}
		sort.Slice(report.Components, func(i, j int) bool {
			return report.Components[i].Name < report.Components[j].Name
		})
	}

	return report
}
