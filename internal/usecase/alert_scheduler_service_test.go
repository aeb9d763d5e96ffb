package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/infrastructure/repository/memory"
)

func TestAlertSchedulerService_RunTick_AtMostOncePerAlert(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	sports := &stubSportsProvider{
		events: map[string][]match.Record{
			"soccer": {{
				ID:      "ev-1",
				Title:   "Arsenal vs Spurs",
				BeginAt: beginAt(now.Add(5 * time.Minute)),
				Status:  match.StatusNotStarted,
				League:  "Premier League",
			}},
		},
	}
	markers := memory.NewAlertMarkerRepository()
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: true}
	svc := NewAlertSchedulerService(subs, markers, data, notifier, nil, AlertSchedulerConfig{}, nil)

	first, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("first tick failed: %v", err)
	}
	if first.AlertsSent != 1 || first.DuplicatesSkipped != 0 {
		t.Fatalf("unexpected first tick: %+v", first)
	}

	second, err := svc.RunTick(t.Context(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second tick failed: %v", err)
	}
	if second.AlertsSent != 0 || second.DuplicatesSkipped != 1 {
		t.Fatalf("alert repeated on second tick: %+v", second)
	}

	delivered := notifier.delivered()
	if len(delivered) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", len(delivered))
	}
	item := delivered[0]
	if item.ChatID != "chat-1" || item.Domain != subscription.DomainSports || item.Competition != "soccer" {
		t.Fatalf("unexpected notification: %+v", item)
	}
	if item.Title != "Arsenal vs Spurs" || item.LeadMinutes != 10 {
		t.Fatalf("unexpected notification payload: %+v", item)
	}

	// Both sports lists are fetched once per round; the second round reads
	// them from cache.
	if calls := sports.eventsCalls.Load(); calls != 2 {
		t.Fatalf("expected one fetch per sport key, got %d", calls)
	}
}

func TestAlertSchedulerService_RunTick_WindowBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		title string
		start *time.Time
		fires bool
	}{
		{title: "started 61s ago", start: beginAt(now.Add(-61 * time.Second)), fires: false},
		{title: "started exactly 60s ago", start: beginAt(now.Add(-60 * time.Second)), fires: true},
		{title: "started 30s ago", start: beginAt(now.Add(-30 * time.Second)), fires: true},
		{title: "starts exactly at lead", start: beginAt(now.Add(10 * time.Minute)), fires: true},
		{title: "starts past lead", start: beginAt(now.Add(10*time.Minute + time.Second)), fires: false},
		{title: "unscheduled", start: nil, fires: false},
	}

	records := make([]match.Record, 0, len(cases))
	wantFires := 0
	for i, tc := range cases {
		records = append(records, match.Record{
			ID:      fmt.Sprintf("ev-%d", i),
			Title:   tc.title,
			BeginAt: tc.start,
			Status:  match.StatusNotStarted,
		})
		if tc.fires {
			wantFires++
		}
	}

	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	sports := &stubSportsProvider{events: map[string][]match.Record{"soccer": records}}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: true}
	svc := NewAlertSchedulerService(subs, memory.NewAlertMarkerRepository(), data, notifier, nil, AlertSchedulerConfig{}, nil)

	report, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != wantFires {
		t.Fatalf("expected %d alerts, got %d (report %+v)", wantFires, report.AlertsSent, report)
	}

	fired := make(map[string]bool)
	for _, item := range notifier.delivered() {
		fired[item.Title] = true
	}
	for _, tc := range cases {
		if fired[tc.title] != tc.fires {
			t.Fatalf("window decision wrong for %q: fired=%v want=%v", tc.title, fired[tc.title], tc.fires)
		}
	}
}

func TestAlertSchedulerService_RunTick_DisabledNotifierWritesNoMarkers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	sports := &stubSportsProvider{
		events: map[string][]match.Record{
			"soccer": {{
				ID:      "ev-1",
				Title:   "Arsenal vs Spurs",
				BeginAt: beginAt(now.Add(5 * time.Minute)),
				Status:  match.StatusNotStarted,
			}},
		},
	}
	markers := memory.NewAlertMarkerRepository()
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: false}
	svc := NewAlertSchedulerService(subs, markers, data, notifier, nil, AlertSchedulerConfig{}, nil)

	report, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != 0 || report.Subscribers != 0 {
		t.Fatalf("disabled notifier must short-circuit: %+v", report)
	}
	if count, _ := markers.CountSince(t.Context(), time.Time{}); count != 0 {
		t.Fatalf("disabled notifier must not claim markers, found %d", count)
	}

	// Configuring the channel later must deliver the alert that was pending
	// all along.
	notifier.enabled = true
	report, err = svc.RunTick(t.Context(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != 1 {
		t.Fatalf("expected the pending alert to fire once enabled: %+v", report)
	}
}

func TestAlertSchedulerService_RunTick_ProviderFailureDowngradesToZeroMatches(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	sports := &stubSportsProvider{err: fmt.Errorf("upstream down")}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: true}
	svc := NewAlertSchedulerService(subs, memory.NewAlertMarkerRepository(), data, notifier, nil, AlertSchedulerConfig{}, nil)

	report, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("provider trouble must not fail the tick: %v", err)
	}
	if report.DomainFailures != 2 {
		t.Fatalf("expected both sport fetches to fail, got %+v", report)
	}
	if report.AlertsSent != 0 || len(notifier.delivered()) != 0 {
		t.Fatalf("no alerts may fire on provider failure: %+v", report)
	}
}

func TestAlertSchedulerService_RunTick_SendFailureKeepsMarker(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	sports := &stubSportsProvider{
		events: map[string][]match.Record{
			"soccer": {{
				ID:      "ev-1",
				Title:   "Arsenal vs Spurs",
				BeginAt: beginAt(now.Add(5 * time.Minute)),
				Status:  match.StatusNotStarted,
			}},
		},
	}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: true, err: fmt.Errorf("telegram 500")}
	svc := NewAlertSchedulerService(subs, memory.NewAlertMarkerRepository(), data, notifier, nil, AlertSchedulerConfig{}, nil)

	report, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.SendFailures != 1 || report.AlertsSent != 0 {
		t.Fatalf("unexpected report after failed send: %+v", report)
	}

	// The marker was claimed before the send, so recovery of the channel
	// must not replay the alert.
	notifier.err = nil
	report, err = svc.RunTick(t.Context(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != 0 || report.DuplicatesSkipped != 1 {
		t.Fatalf("failed send must not be retried: %+v", report)
	}
}

func TestAlertSchedulerService_RunTick_RespectsDomainToggles(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	subs := memory.NewSubscriptionRepository()
	if err := subs.SetEnabled(t.Context(), "chat-1", true); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	esports := &stubEsportsProvider{
		enabled: true,
		today: map[string][]match.Record{
			"lol": {{
				ID:      "m-1",
				Title:   "T1 vs Gen.G",
				BeginAt: beginAt(now.Add(3 * time.Minute)),
				Status:  match.StatusNotStarted,
				League:  "LCK",
			}},
		},
	}
	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)
	notifier := &recordingAlertNotifier{enabled: true}
	svc := NewAlertSchedulerService(subs, memory.NewAlertMarkerRepository(), data, notifier, nil, AlertSchedulerConfig{}, nil)

	report, err := svc.RunTick(t.Context(), now)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != 0 {
		t.Fatalf("esports alert fired while the domain was off: %+v", report)
	}
	if calls := esports.todayCalls.Load(); calls != 0 {
		t.Fatalf("esports lists must not be fetched while nobody wants them, got %d calls", calls)
	}

	if err := subs.SetDomainEnabled(t.Context(), "chat-1", subscription.DomainEsports, true); err != nil {
		t.Fatalf("toggle esports: %v", err)
	}
	report, err = svc.RunTick(t.Context(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.AlertsSent != 1 {
		t.Fatalf("expected the esports alert after the toggle: %+v", report)
	}
	delivered := notifier.delivered()
	if len(delivered) != 1 || delivered[0].Domain != subscription.DomainEsports || delivered[0].Competition != "lol" {
		t.Fatalf("unexpected delivery: %+v", delivered)
	}
}

func TestAlertSchedulerService_RunTick_NoSubscribers(t *testing.T) {
	t.Parallel()

	sports := &stubSportsProvider{}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	svc := NewAlertSchedulerService(
		memory.NewSubscriptionRepository(),
		memory.NewAlertMarkerRepository(),
		data,
		&recordingAlertNotifier{enabled: true},
		nil,
		AlertSchedulerConfig{},
		nil,
	)

	report, err := svc.RunTick(t.Context(), time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if report.Subscribers != 0 || report.AlertsSent != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if calls := sports.eventsCalls.Load(); calls != 0 {
		t.Fatalf("no lists may be fetched without subscribers, got %d calls", calls)
	}
}
