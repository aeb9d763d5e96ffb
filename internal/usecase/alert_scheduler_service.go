package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/platform/id"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultTickInterval    = 60 * time.Second
	defaultAlertLead       = 10 * time.Minute
	defaultAlertGrace      = 60 * time.Second
	defaultPrefetchWorkers = 2
)

// AlertNotifier delivers one alert to one chat. Enabled is false when the
// delivery channel has no credential; the scheduler then skips evaluation
// entirely instead of burning marker writes on undeliverable alerts.
type AlertNotifier interface {
	Enabled() bool
	Notify(ctx context.Context, item alert.Notification) error
}

type noopAlertNotifier struct{}

// NewNoopAlertNotifier returns a disabled sink for wiring without a
// configured delivery channel.
func NewNoopAlertNotifier() AlertNotifier {
	return noopAlertNotifier{}
}

func (noopAlertNotifier) Enabled() bool { return false }

func (noopAlertNotifier) Notify(ctx context.Context, item alert.Notification) error {
	return nil
}

// AlertSchedulerConfig tunes the tick loop. Zero values take the defaults.
type AlertSchedulerConfig struct {
	// TickInterval is the pause between evaluation rounds.
	TickInterval time.Duration
	// Lead is how far before kickoff an alert fires.
	Lead time.Duration
	// Grace keeps a match eligible shortly after kickoff so a delayed tick
	// still announces it instead of silently dropping it.
	Grace time.Duration
	// PrefetchWorkers bounds concurrent upstream list fetches per tick.
	PrefetchWorkers int
}

// TickReport summarizes one evaluation round.
type TickReport struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	Subscribers       int       `json:"subscribers"`
	DomainsFetched    int       `json:"domains_fetched"`
	DomainFailures    int       `json:"domain_failures"`
	AlertsSent        int       `json:"alerts_sent"`
	SendFailures      int       `json:"send_failures"`
	DuplicatesSkipped int       `json:"duplicates_skipped"`
	DurationMs        int64     `json:"duration_ms"`
}

// AlertSchedulerService periodically matches today's fixtures against
// subscriber preferences and dispatches pre-kickoff alerts. Delivery is
// at-most-once: a marker row is claimed before each send, so a crash between
// marker and send loses that alert rather than ever repeating it.
type AlertSchedulerService struct {
	subs     subscription.Repository
	markers  alert.Repository
	data     *MatchDataService
	notifier AlertNotifier
	ids      id.Generator
	cfg      AlertSchedulerConfig
	logger   *logging.Logger
	now      func() time.Time

	totalTicks  atomic.Int64
	totalAlerts atomic.Int64

	lastMu  sync.Mutex
	last    TickReport
	hasLast bool
}

func NewAlertSchedulerService(
	subs subscription.Repository,
	markers alert.Repository,
	data *MatchDataService,
	notifier AlertNotifier,
	ids id.Generator,
	cfg AlertSchedulerConfig,
	logger *logging.Logger,
) *AlertSchedulerService {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.Lead <= 0 {
		cfg.Lead = defaultAlertLead
	}
	if cfg.Grace <= 0 {
		cfg.Grace = defaultAlertGrace
	}
	if cfg.PrefetchWorkers <= 0 {
		cfg.PrefetchWorkers = defaultPrefetchWorkers
	}
	if notifier == nil {
		notifier = NewNoopAlertNotifier()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AlertSchedulerService{
		subs:     subs,
		markers:  markers,
		data:     data,
		notifier: notifier,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run ticks until ctx is canceled. All evaluation happens on this goroutine:
// a slow round delays the next tick instead of overlapping it.
func (s *AlertSchedulerService) Run(ctx context.Context) {
	s.logger.InfoContext(ctx, "alert scheduler started",
		"interval", s.cfg.TickInterval.String(),
		"lead", s.cfg.Lead.String(),
	)

	if _, err := s.RunTick(ctx, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "alert tick failed", "error", err)
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "alert scheduler stopped")
			return
		case tickAt := <-ticker.C:
			report, err := s.RunTick(ctx, tickAt)
			if err != nil {
				s.logger.ErrorContext(ctx, "alert tick failed", "error", err)
				continue
			}
			if report.AlertsSent > 0 || report.SendFailures > 0 || report.DomainFailures > 0 {
				s.logger.InfoContext(ctx, "alert tick finished",
					"run_id", report.RunID,
					"alerts_sent", report.AlertsSent,
					"send_failures", report.SendFailures,
					"domain_failures", report.DomainFailures,
				)
			}
		}
	}
}

// RunTick evaluates one round at the given instant. Upstream trouble for a
// domain downgrades that domain to zero matches for this round; the tick
// itself fails only when the subscription store is unreachable.
func (s *AlertSchedulerService) RunTick(ctx context.Context, now time.Time) (TickReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AlertSchedulerService.RunTick")
	defer span.End()

	started := time.Now()
	s.totalTicks.Add(1)

	report := TickReport{StartedAt: now.UTC()}
	if runID, err := s.ids.NewID(); err == nil {
		report.RunID = runID
	} else {
		report.RunID = strconv.FormatInt(now.UnixNano(), 10)
	}

	// No delivery channel means nothing can be sent. Writing markers here
	// would claim alerts that never went out, so skip evaluation entirely.
	if !s.notifier.Enabled() {
		report.DurationMs = time.Since(started).Milliseconds()
		s.storeReport(report)
		return report, nil
	}

	subs, err := s.subs.ListEnabled(ctx)
	if err != nil {
		return TickReport{}, fmt.Errorf("list enabled subscriptions: %w", err)
	}
	report.Subscribers = len(subs)
	if len(subs) == 0 {
		report.DurationMs = time.Since(started).Milliseconds()
		s.storeReport(report)
		return report, nil
	}

	domains := s.activeDomains(subs)
	lists, failures := s.prefetchDomainLists(ctx, domains)
	report.DomainsFetched = len(lists)
	report.DomainFailures = failures

	for _, sub := range subs {
		for _, dom := range domains {
			if !sub.DomainEnabled(dom.group) {
				continue
			}
			for _, rec := range lists[dom.key] {
				s.evaluate(ctx, &report, now, sub, dom, rec)
			}
		}
	}

	report.DurationMs = time.Since(started).Milliseconds()
	s.totalAlerts.Add(int64(report.AlertsSent))
	s.storeReport(report)
	return report, nil
}

// LastReport returns the most recent tick's summary, false before any tick.
func (s *AlertSchedulerService) LastReport() (TickReport, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last, s.hasLast
}

// TickCount is the number of rounds evaluated since start.
func (s *AlertSchedulerService) TickCount() int64 {
	return s.totalTicks.Load()
}

// AlertsDispatched is the number of alerts delivered since start.
func (s *AlertSchedulerService) AlertsDispatched() int64 {
	return s.totalAlerts.Load()
}

func (s *AlertSchedulerService) storeReport(report TickReport) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = report
	s.hasLast = true
}

// tickDomain pairs one canonical domain key with the subscription group that
// gates it.
type tickDomain struct {
	group string
	key   string
}

// activeDomains lists the domain keys worth fetching this round. Esports
// keys drop out when nobody wants them or the provider has no credential.
func (s *AlertSchedulerService) activeDomains(subs []subscription.Subscription) []tickDomain {
	needSports, needEsports := false, false
	for _, sub := range subs {
		if sub.SportsEnabled {
			needSports = true
		}
		if sub.EsportsEnabled {
			needEsports = true
		}
	}
	if needEsports && !s.data.EsportsEnabled() {
		needEsports = false
	}

	var domains []tickDomain
	if needSports {
		for _, key := range match.Sports() {
			domains = append(domains, tickDomain{group: subscription.DomainSports, key: key})
		}
	}
	if needEsports {
		for _, key := range match.Games() {
			domains = append(domains, tickDomain{group: subscription.DomainEsports, key: key})
		}
	}
	return domains
}

// prefetchDomainLists pulls each domain's list exactly once per round
// regardless of subscriber count; the evaluation loop only reads the map.
// A failed fetch downgrades its domain to an absent entry.
func (s *AlertSchedulerService) prefetchDomainLists(ctx context.Context, domains []tickDomain) (map[string][]match.Record, int) {
	if len(domains) == 0 {
		return nil, 0
	}

	type fetched struct {
		key     string
		records []match.Record
		err     error
	}

	workerCount := s.cfg.PrefetchWorkers
	if workerCount > len(domains) {
		workerCount = len(domains)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		s.logger.WarnContext(ctx, "worker pool unavailable, skipping domain fetches", "error", err)
		return nil, len(domains)
	}
	defer pool.Release()

	results := make(chan fetched, len(domains))

	var workers sync.WaitGroup
	for _, dom := range domains {
		dom := dom
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			records, err := s.data.TodayMatches(ctx, dom.key)
			results <- fetched{key: dom.key, records: records, err: err}
		}); err != nil {
			workers.Done()
			results <- fetched{key: dom.key, err: err}
		}
	}
	workers.Wait()
	close(results)

	lists := make(map[string][]match.Record, len(domains))
	failures := 0
	for row := range results {
		if row.err != nil {
			failures++
			s.logger.WarnContext(ctx, "domain list fetch failed, zero matches this tick",
				"domain", row.key, "error", row.err)
			continue
		}
		lists[row.key] = row.records
	}
	return lists, failures
}

// evaluate decides one (subscriber, match) pair. The eligibility window is
// inclusive on both ends: a match starting exactly Grace ago or exactly Lead
// ahead still fires.
func (s *AlertSchedulerService) evaluate(
	ctx context.Context,
	report *TickReport,
	now time.Time,
	sub subscription.Subscription,
	dom tickDomain,
	rec match.Record,
) {
	if rec.BeginAt == nil {
		return
	}
	start := *rec.BeginAt
	if start.Before(now.Add(-s.cfg.Grace)) {
		return
	}
	if start.After(now.Add(s.cfg.Lead)) {
		return
	}

	alertID := alert.ID{
		Domain:      dom.group,
		Competition: dom.key,
		Title:       rec.DisplayTitle(),
		StartUnix:   start.Unix(),
		ChatID:      sub.ChatID,
	}
	claimed, err := s.markers.Record(ctx, alertID, now)
	if err != nil {
		s.logger.WarnContext(ctx, "alert marker write failed, skipping dispatch",
			"alert", alertID.String(), "error", err)
		return
	}
	if !claimed {
		report.DuplicatesSkipped++
		return
	}

	item := alert.Notification{
		ChatID:      sub.ChatID,
		Domain:      dom.group,
		Competition: dom.key,
		Title:       rec.DisplayTitle(),
		League:      rec.League,
		StartAt:     start,
		LeadMinutes: int(s.cfg.Lead / time.Minute),
	}
	if err := s.notifier.Notify(ctx, item); err != nil {
		report.SendFailures++
		s.logger.WarnContext(ctx, "alert delivery failed, marker kept",
			"alert", alertID.String(), "chat_id", sub.ChatID, "error", err)
		return
	}
	report.AlertsSent++
}
