package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchwatch/matchwatch/internal/domain/cache"
	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
)

// TTL bands per data class. Schedules move (postponements, additions), team
// identity barely does, recent history sits in between.
const (
	ttlTodayMatches = 60 * time.Second
	ttlTeamSearch   = time.Hour
	ttlTeamHistory  = 5 * time.Minute
)

// SportsDataProvider is the sports-results upstream, already normalized to
// canonical records. Sport arguments are canonical keys from match.Sports.
type SportsDataProvider interface {
	EventsOnDay(ctx context.Context, dayYMD, sport string) ([]match.Record, error)
	SearchTeam(ctx context.Context, name string) (match.Team, bool, error)
	LastEvents(ctx context.Context, teamID string) ([]match.Record, error)
}

// EsportsDataProvider is the esports upstream. Enabled is false when no
// credential is configured; callers must short-circuit instead of calling.
type EsportsDataProvider interface {
	Enabled() bool
	MatchesToday(ctx context.Context, game, dayYMD string) ([]match.Record, error)
	UpcomingMatches(ctx context.Context, game string, from, to time.Time, search string) ([]match.Record, error)
	TeamPastMatches(ctx context.Context, game, teamID string) ([]match.Record, error)
}

// MatchDataService fronts both providers with the TTL cache. Every read is
// cache-first; provider responses are written back as canonical records.
// Cache trouble degrades to a direct provider call, it never fails a read.
type MatchDataService struct {
	store   cache.Store
	sports  SportsDataProvider
	esports EsportsDataProvider
	loc     *time.Location
	logger  *logging.Logger
	now     func() time.Time
}

// NewMatchDataService wires the cache-backed reads. displayLoc decides which
// calendar day "today" means; nil falls back to UTC.
func NewMatchDataService(
	store cache.Store,
	sports SportsDataProvider,
	esports EsportsDataProvider,
	displayLoc *time.Location,
	logger *logging.Logger,
) *MatchDataService {
	if displayLoc == nil {
		displayLoc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchDataService{
		store:   store,
		sports:  sports,
		esports: esports,
		loc:     displayLoc,
		logger:  logger,
		now:     time.Now,
	}
}

// EsportsEnabled reports whether the esports provider has a credential.
func (s *MatchDataService) EsportsEnabled() bool {
	return s.esports != nil && s.esports.Enabled()
}

// Today returns the service's current calendar day in the display zone.
func (s *MatchDataService) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// TodayMatches lists today's matches for one canonical domain key, sport or
// esport alike.
func (s *MatchDataService) TodayMatches(ctx context.Context, domainKey string) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDataService.TodayMatches")
	defer span.End()

	domainKey = strings.ToLower(strings.TrimSpace(domainKey))
	switch {
	case match.IsSport(domainKey):
		return s.sportsMatchesToday(ctx, domainKey, s.Today())
	case match.IsGame(domainKey):
		return s.esportsMatchesToday(ctx, domainKey, s.Today())
	default:
		return nil, fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, domainKey)
	}
}

func (s *MatchDataService) sportsMatchesToday(ctx context.Context, sport, dayYMD string) ([]match.Record, error) {
	key := "sportsdb:eventsday:" + sport + ":" + dayYMD
	return s.cachedRecords(ctx, key, ttlTodayMatches, func(ctx context.Context) ([]match.Record, error) {
		return s.sports.EventsOnDay(ctx, dayYMD, sport)
	})
}

func (s *MatchDataService) esportsMatchesToday(ctx context.Context, game, dayYMD string) ([]match.Record, error) {
	if !s.EsportsEnabled() {
		return nil, fmt.Errorf("%w: esports provider token is not configured", ErrFeatureUnavailable)
	}

	key := "pandascore:today:" + game + ":" + dayYMD
	return s.cachedRecords(ctx, key, ttlTodayMatches, func(ctx context.Context) ([]match.Record, error) {
		return s.esports.MatchesToday(ctx, game, dayYMD)
	})
}

// SearchSportsTeam resolves a team by display name. Only hits are cached;
// an unknown name is a normal miss and stays uncached so the next call asks
// the provider again.
func (s *MatchDataService) SearchSportsTeam(ctx context.Context, name string) (match.Team, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return match.Team{}, false, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	key := "sportsdb:searchteam:" + strings.ToLower(name)
	if raw, ok := s.cacheGet(ctx, key); ok {
		var team match.Team
		if err := sonic.Unmarshal(raw, &team); err == nil && team.ID != "" {
			return team, true, nil
		}
		s.logger.WarnContext(ctx, "drop undecodable cache entry", "key", key)
	}

	team, found, err := s.sports.SearchTeam(ctx, name)
	if err != nil {
		return match.Team{}, false, fmt.Errorf("search team %q: %w", name, err)
	}
	if !found {
		return match.Team{}, false, nil
	}

	s.cacheSet(ctx, key, team, ttlTeamSearch)
	return team, true, nil
}

// TeamLastEvents lists a sports team's most recent events, newest first.
func (s *MatchDataService) TeamLastEvents(ctx context.Context, teamID string) ([]match.Record, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	key := "sportsdb:lastevents:" + teamID
	return s.cachedRecords(ctx, key, ttlTeamHistory, func(ctx context.Context) ([]match.Record, error) {
		return s.sports.LastEvents(ctx, teamID)
	})
}

// EsportsUpcomingMatches probes the window for fixtures naming the searched
// team. Free-text search results are deliberately not cached.
func (s *MatchDataService) EsportsUpcomingMatches(ctx context.Context, game string, from, to time.Time, search string) ([]match.Record, error) {
	if !s.EsportsEnabled() {
		return nil, fmt.Errorf("%w: esports provider token is not configured", ErrFeatureUnavailable)
	}
	game = strings.ToLower(strings.TrimSpace(game))
	if !match.IsGame(game) {
		return nil, fmt.Errorf("%w: unknown videogame %q", ErrInvalidInput, game)
	}

	return s.esports.UpcomingMatches(ctx, game, from, to, search)
}

// EsportsTeamHistory lists a team's finished matches, newest first.
func (s *MatchDataService) EsportsTeamHistory(ctx context.Context, game, teamID string) ([]match.Record, error) {
	if !s.EsportsEnabled() {
		return nil, fmt.Errorf("%w: esports provider token is not configured", ErrFeatureUnavailable)
	}
	game = strings.ToLower(strings.TrimSpace(game))
	if !match.IsGame(game) {
		return nil, fmt.Errorf("%w: unknown videogame %q", ErrInvalidInput, game)
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	key := "pandascore:history:" + game + ":" + teamID
	return s.cachedRecords(ctx, key, ttlTeamHistory, func(ctx context.Context) ([]match.Record, error) {
		return s.esports.TeamPastMatches(ctx, game, teamID)
	})
}

// cachedRecords is the fetch-through path for record lists. An empty list
// from the provider is a real answer and is cached like any other; provider
// errors are returned uncached.
func (s *MatchDataService) cachedRecords(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]match.Record, error)) ([]match.Record, error) {
	if raw, ok := s.cacheGet(ctx, key); ok {
		var out []match.Record
		if err := sonic.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		s.logger.WarnContext(ctx, "drop undecodable cache entry", "key", key)
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, out, ttl)
	return out, nil
}

func (s *MatchDataService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.store == nil {
		return nil, false
	}
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling through to provider", "key", key, "error", err)
		return nil, false
	}
	return raw, ok
}

func (s *MatchDataService) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.store == nil {
		return
	}
	payload, err := sonic.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "cache value marshal failed", "key", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
