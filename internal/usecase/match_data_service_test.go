package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/infrastructure/repository/memory"
)

type stubSportsProvider struct {
	events  map[string][]match.Record
	teams   map[string]match.Team
	history map[string][]match.Record
	err     error

	eventsCalls  atomic.Int32
	searchCalls  atomic.Int32
	historyCalls atomic.Int32
}

func (p *stubSportsProvider) EventsOnDay(_ context.Context, dayYMD, sport string) ([]match.Record, error) {
	p.eventsCalls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.events[sport], nil
}

func (p *stubSportsProvider) SearchTeam(_ context.Context, name string) (match.Team, bool, error) {
	p.searchCalls.Add(1)
	if p.err != nil {
		return match.Team{}, false, p.err
	}
	team, ok := p.teams[strings.ToLower(name)]
	return team, ok, nil
}

func (p *stubSportsProvider) LastEvents(_ context.Context, teamID string) ([]match.Record, error) {
	p.historyCalls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.history[teamID], nil
}

type stubEsportsProvider struct {
	enabled  bool
	today    map[string][]match.Record
	upcoming map[string][]match.Record
	history  map[string][]match.Record
	err      error

	todayCalls    atomic.Int32
	upcomingCalls atomic.Int32
	historyCalls  atomic.Int32
}

func (p *stubEsportsProvider) Enabled() bool { return p.enabled }

func (p *stubEsportsProvider) MatchesToday(_ context.Context, game, dayYMD string) ([]match.Record, error) {
	p.todayCalls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.today[game], nil
}

func (p *stubEsportsProvider) UpcomingMatches(_ context.Context, game string, from, to time.Time, search string) ([]match.Record, error) {
	p.upcomingCalls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.upcoming[game], nil
}

func (p *stubEsportsProvider) TeamPastMatches(_ context.Context, game, teamID string) ([]match.Record, error) {
	p.historyCalls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.history[game+":"+teamID], nil
}

type failingCacheStore struct{}

func (failingCacheStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("cache offline")
}

func (failingCacheStore) Set(context.Context, string, []byte, time.Duration) error {
	return fmt.Errorf("cache offline")
}

type recordingAlertNotifier struct {
	enabled bool
	err     error

	mu    sync.Mutex
	items []alert.Notification
}

func (n *recordingAlertNotifier) Enabled() bool { return n.enabled }

func (n *recordingAlertNotifier) Notify(_ context.Context, item alert.Notification) error {
	n.mu.Lock()
	n.items = append(n.items, item)
	n.mu.Unlock()
	return n.err
}

func (n *recordingAlertNotifier) delivered() []alert.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]alert.Notification, len(n.items))
	copy(out, n.items)
	return out
}

func beginAt(t time.Time) *time.Time {
	return &t
}

func TestMatchDataService_TodayMatches_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	sports := &stubSportsProvider{
		events: map[string][]match.Record{
			"soccer": {{ID: "ev-1", Title: "Arsenal vs Spurs", Status: match.StatusNotStarted}},
		},
	}
	svc := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)

	first, err := svc.TodayMatches(t.Context(), "soccer")
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := svc.TodayMatches(t.Context(), "soccer")
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 record per read, got %d and %d", len(first), len(second))
	}
	if second[0].ID != "ev-1" || second[0].Title != "Arsenal vs Spurs" {
		t.Fatalf("cached record lost fields: %+v", second[0])
	}
	if calls := sports.eventsCalls.Load(); calls != 1 {
		t.Fatalf("expected one provider call, got %d", calls)
	}
}

func TestMatchDataService_TodayMatches_EmptyListIsCached(t *testing.T) {
	t.Parallel()

	sports := &stubSportsProvider{
		events: map[string][]match.Record{"basketball": {}},
	}
	svc := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)

	for i := 0; i < 2; i++ {
		records, err := svc.TodayMatches(t.Context(), "basketball")
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if len(records) != 0 {
			t.Fatalf("expected empty list, got %d records", len(records))
		}
	}

	if calls := sports.eventsCalls.Load(); calls != 1 {
		t.Fatalf("empty list must be cached as a real answer, provider called %d times", calls)
	}
}

func TestMatchDataService_TodayMatches_UnknownDomain(t *testing.T) {
	t.Parallel()

	svc := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, nil, time.UTC, nil)

	_, err := svc.TodayMatches(t.Context(), "chess")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchDataService_TodayMatches_EsportsWithoutToken(t *testing.T) {
	t.Parallel()

	esports := &stubEsportsProvider{enabled: false}
	svc := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)

	_, err := svc.TodayMatches(t.Context(), "lol")
	if !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
	if calls := esports.todayCalls.Load(); calls != 0 {
		t.Fatalf("provider must not be called without a token, got %d calls", calls)
	}
}

func TestMatchDataService_SearchSportsTeam_MissIsNotCached(t *testing.T) {
	t.Parallel()

	sports := &stubSportsProvider{teams: map[string]match.Team{}}
	svc := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)

	for i := 0; i < 2; i++ {
		_, found, err := svc.SearchSportsTeam(t.Context(), "Arsenal")
		if err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
		if found {
			t.Fatalf("expected miss on search %d", i)
		}
	}
	if calls := sports.searchCalls.Load(); calls != 2 {
		t.Fatalf("a miss must reach the provider every time, got %d calls", calls)
	}

	// Once the provider knows the team, the hit is cached.
	sports.teams["arsenal"] = match.Team{ID: "t-1", Name: "Arsenal"}
	for i := 0; i < 2; i++ {
		team, found, err := svc.SearchSportsTeam(t.Context(), "Arsenal")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !found || team.ID != "t-1" {
			t.Fatalf("expected hit for t-1, got found=%v team=%+v", found, team)
		}
	}
	if calls := sports.searchCalls.Load(); calls != 3 {
		t.Fatalf("hit must be served from cache, got %d provider calls", calls)
	}
}

func TestMatchDataService_TeamLastEvents_CacheTroubleFallsThrough(t *testing.T) {
	t.Parallel()

	sports := &stubSportsProvider{
		history: map[string][]match.Record{
			"t-1": {{ID: "ev-9", Status: match.StatusFinished, WinnerID: "t-1"}},
		},
	}
	svc := NewMatchDataService(failingCacheStore{}, sports, nil, time.UTC, nil)

	records, err := svc.TeamLastEvents(t.Context(), "t-1")
	if err != nil {
		t.Fatalf("read must survive a broken cache: %v", err)
	}
	if len(records) != 1 || records[0].ID != "ev-9" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestMatchDataService_EsportsTeamHistory_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	esports := &stubEsportsProvider{
		enabled: true,
		history: map[string][]match.Record{
			"lol:126061": {{ID: "m-1", Status: match.StatusFinished, WinnerID: "126061"}},
		},
	}
	svc := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)

	for i := 0; i < 2; i++ {
		records, err := svc.EsportsTeamHistory(t.Context(), "lol", "126061")
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
	}
	if calls := esports.historyCalls.Load(); calls != 1 {
		t.Fatalf("expected one provider call, got %d", calls)
	}
}

func TestMatchDataService_EsportsTeamHistory_UnknownGame(t *testing.T) {
	t.Parallel()

	esports := &stubEsportsProvider{enabled: true}
	svc := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)

	if _, err := svc.EsportsTeamHistory(t.Context(), "starcraft", "1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchDataService_Today_UsesDisplayZone(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	svc := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, nil, seoul, nil)
	svc.now = func() time.Time {
		// 23:00 UTC is already the next day in KST.
		return time.Date(2026, time.March, 13, 23, 0, 0, 0, time.UTC)
	}

	if got := svc.Today(); got != "2026-03-14" {
		t.Fatalf("expected display-zone day 2026-03-14, got %s", got)
	}
}
