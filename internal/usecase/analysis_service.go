package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/domain/prediction"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultSampleSize       = 10
	defaultHistoryScanLimit = 50
	defaultUpcomingWindow   = 7 * 24 * time.Hour
)

// AnalysisConfig bounds how much history feeds a verdict. Zero values take
// the defaults.
type AnalysisConfig struct {
	// SampleSize is how many decided matches per team count toward form.
	SampleSize int
	// HistoryScanLimit bounds how deep the head-to-head scan looks into a
	// team's history.
	HistoryScanLimit int
	// UpcomingWindow is how far ahead the esports fixture probe searches.
	UpcomingWindow time.Duration
}

// TeamAnalysis is one team's resolved identity plus its recent form.
type TeamAnalysis struct {
	Team   match.Team
	Form   prediction.FormStat
	Recent []match.Record
}

// MatchAnalysis is the full pairing verdict. Upcoming is non-nil only when a
// scheduled fixture between the two teams was found.
type MatchAnalysis struct {
	Domain     string
	TeamA      match.Team
	TeamB      match.Team
	FormA      prediction.FormStat
	FormB      prediction.FormStat
	HeadToHead prediction.HeadToHeadStat
	Outcome    prediction.Outcome
	Upcoming   *match.Record
}

// AnalysisService resolves team identities through the cached data layer and
// runs the estimator over their histories.
type AnalysisService struct {
	data   *MatchDataService
	cfg    AnalysisConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewAnalysisService(data *MatchDataService, cfg AnalysisConfig, logger *logging.Logger) *AnalysisService {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = defaultSampleSize
	}
	if cfg.HistoryScanLimit <= 0 {
		cfg.HistoryScanLimit = defaultHistoryScanLimit
	}
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = defaultUpcomingWindow
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AnalysisService{
		data:   data,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// AnalyzeTeam looks one sports team up by name and summarizes its form.
func (s *AnalysisService) AnalyzeTeam(ctx context.Context, name string) (TeamAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.AnalyzeTeam")
	defer span.End()

	team, history, err := s.sportsTeamBundle(ctx, name)
	if err != nil {
		return TeamAnalysis{}, err
	}

	recent := history
	if len(recent) > s.cfg.SampleSize {
		recent = recent[:s.cfg.SampleSize]
	}

	return TeamAnalysis{
		Team:   team,
		Form:   prediction.RecentForm(team.ID, history, s.cfg.SampleSize),
		Recent: recent,
	}, nil
}

// AnalyzeMatch compares two teams inside one domain and returns the
// estimator's verdict. The head-to-head count is taken from team A's history
// only, so swapping the argument order can change it.
func (s *AnalysisService) AnalyzeMatch(ctx context.Context, domainKey, nameA, nameB string) (MatchAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.AnalyzeMatch")
	defer span.End()

	domainKey = strings.ToLower(strings.TrimSpace(domainKey))
	nameA = strings.TrimSpace(nameA)
	nameB = strings.TrimSpace(nameB)
	if nameA == "" || nameB == "" {
		return MatchAnalysis{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if strings.EqualFold(nameA, nameB) {
		return MatchAnalysis{}, fmt.Errorf("%w: team names must differ", ErrInvalidInput)
	}

	switch {
	case match.IsSport(domainKey):
		return s.analyzeSportsMatch(ctx, domainKey, nameA, nameB)
	case match.IsGame(domainKey):
		return s.analyzeEsportsMatch(ctx, domainKey, nameA, nameB)
	default:
		return MatchAnalysis{}, fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, domainKey)
	}
}

func (s *AnalysisService) analyzeSportsMatch(ctx context.Context, sport, nameA, nameB string) (MatchAnalysis, error) {
	var (
		teamA, teamB       match.Team
		historyA, historyB []match.Record
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		teamA, historyA, err = s.sportsTeamBundle(ctx, nameA)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		teamB, historyB, err = s.sportsTeamBundle(ctx, nameB)
		return err
	})
	if err := p.Wait(); err != nil {
		return MatchAnalysis{}, err
	}

	return s.verdict(sport, teamA, teamB, historyA, historyB, nil), nil
}

// sportsTeamBundle resolves one team and pulls its recent events.
func (s *AnalysisService) sportsTeamBundle(ctx context.Context, name string) (match.Team, []match.Record, error) {
	team, found, err := s.data.SearchSportsTeam(ctx, name)
	if err != nil {
		return match.Team{}, nil, err
	}
	if !found {
		return match.Team{}, nil, fmt.Errorf("%w: team %q", ErrNotFound, name)
	}

	history, err := s.data.TeamLastEvents(ctx, team.ID)
	if err != nil {
		return match.Team{}, nil, fmt.Errorf("history of %q: %w", team.Name, err)
	}
	return team, history, nil
}

func (s *AnalysisService) analyzeEsportsMatch(ctx context.Context, game, nameA, nameB string) (MatchAnalysis, error) {
	now := s.now()
	upcoming, err := s.data.EsportsUpcomingMatches(ctx, game, now, now.Add(s.cfg.UpcomingWindow), nameA)
	if err != nil {
		return MatchAnalysis{}, err
	}

	fixture, teamA, teamB, ok := pairFixture(upcoming, nameA, nameB)
	if !ok {
		return MatchAnalysis{}, fmt.Errorf("%w: no upcoming %s match pairs %q with %q", ErrNotFound, game, nameA, nameB)
	}

	var historyA, historyB []match.Record
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		historyA, err = s.data.EsportsTeamHistory(ctx, game, teamA.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		historyB, err = s.data.EsportsTeamHistory(ctx, game, teamB.ID)
		return err
	})
	if err := p.Wait(); err != nil {
		return MatchAnalysis{}, err
	}

	return s.verdict(game, teamA, teamB, historyA, historyB, &fixture), nil
}

func (s *AnalysisService) verdict(domainKey string, teamA, teamB match.Team, historyA, historyB []match.Record, fixture *match.Record) MatchAnalysis {
	formA := prediction.RecentForm(teamA.ID, historyA, s.cfg.SampleSize)
	formB := prediction.RecentForm(teamB.ID, historyB, s.cfg.SampleSize)
	h2h := prediction.HeadToHead(teamA.ID, teamB.ID, historyA, s.cfg.HistoryScanLimit)

	return MatchAnalysis{
		Domain:     domainKey,
		TeamA:      teamA,
		TeamB:      teamB,
		FormA:      formA,
		FormB:      formB,
		HeadToHead: h2h,
		Outcome:    prediction.Estimate(teamA, teamB, formA, formB, h2h, s.cfg.SampleSize),
		Upcoming:   fixture,
	}
}

// pairFixture picks the first fixture whose opponents cover both requested
// names, matching case-insensitively on substrings. The two assignments must
// land on different slots so "T1 vs T1 Academy" style lineups still resolve.
func pairFixture(records []match.Record, nameA, nameB string) (match.Record, match.Team, match.Team, bool) {
	for _, rec := range records {
		if len(rec.Opponents) < 2 {
			continue
		}
		for i, a := range rec.Opponents {
			if !containsFold(a.Name, nameA) {
				continue
			}
			for j, b := range rec.Opponents {
				if i == j || !containsFold(b.Name, nameB) {
					continue
				}
				return rec, a, b, true
			}
		}
	}
	return match.Record{}, match.Team{}, match.Team{}, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
