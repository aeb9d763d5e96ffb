package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/infrastructure/repository/memory"
)

func decidedMatch(id string, a, b match.Team, winnerID string) match.Record {
	return match.Record{
		ID:        id,
		Status:    match.StatusFinished,
		Opponents: []match.Team{a, b},
		WinnerID:  winnerID,
	}
}

func TestAnalysisService_AnalyzeTeam(t *testing.T) {
	t.Parallel()

	arsenal := match.Team{ID: "t-1", Name: "Arsenal"}
	spurs := match.Team{ID: "t-2", Name: "Spurs"}
	chelsea := match.Team{ID: "t-3", Name: "Chelsea"}
	sports := &stubSportsProvider{
		teams: map[string]match.Team{"arsenal": arsenal},
		history: map[string][]match.Record{
			"t-1": {
				decidedMatch("ev-1", arsenal, spurs, "t-1"),
				decidedMatch("ev-2", chelsea, arsenal, "t-1"),
				decidedMatch("ev-3", arsenal, chelsea, "t-3"),
			},
		},
	}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	analysis, err := svc.AnalyzeTeam(t.Context(), "Arsenal")
	if err != nil {
		t.Fatalf("analyze team failed: %v", err)
	}

	if analysis.Team.ID != "t-1" {
		t.Fatalf("unexpected team: %+v", analysis.Team)
	}
	if analysis.Form.Played != 3 || analysis.Form.Wins != 2 {
		t.Fatalf("unexpected form: %+v", analysis.Form)
	}
	if len(analysis.Recent) != 3 {
		t.Fatalf("expected 3 recent records, got %d", len(analysis.Recent))
	}
}

func TestAnalysisService_AnalyzeTeam_NotFound(t *testing.T) {
	t.Parallel()

	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, nil, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	if _, err := svc.AnalyzeTeam(t.Context(), "Nonexistent FC"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisService_AnalyzeMatch_InvalidNames(t *testing.T) {
	t.Parallel()

	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, nil, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	if _, err := svc.AnalyzeMatch(t.Context(), "soccer", "Arsenal", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := svc.AnalyzeMatch(t.Context(), "soccer", "Arsenal", "arsenal"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for identical names, got %v", err)
	}
	if _, err := svc.AnalyzeMatch(t.Context(), "curling", "A", "B"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown domain, got %v", err)
	}
}

func TestAnalysisService_AnalyzeMatch_SportsHeadToHeadIsOneSided(t *testing.T) {
	t.Parallel()

	arsenal := match.Team{ID: "t-1", Name: "Arsenal"}
	spurs := match.Team{ID: "t-2", Name: "Spurs"}
	chelsea := match.Team{ID: "t-3", Name: "Chelsea"}
	sports := &stubSportsProvider{
		teams: map[string]match.Team{
			"arsenal": arsenal,
			"spurs":   spurs,
		},
		history: map[string][]match.Record{
			"t-1": {
				decidedMatch("ev-1", arsenal, spurs, "t-1"),
				decidedMatch("ev-2", arsenal, chelsea, "t-3"),
			},
			// This meeting is visible only from Spurs' side and must not
			// count: the head-to-head scan reads team A's history alone.
			"t-2": {
				decidedMatch("ev-8", spurs, arsenal, "t-2"),
				decidedMatch("ev-9", spurs, chelsea, "t-2"),
			},
		},
	}
	data := NewMatchDataService(memory.NewCacheStore(), sports, nil, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	analysis, err := svc.AnalyzeMatch(t.Context(), "soccer", "Arsenal", "Spurs")
	if err != nil {
		t.Fatalf("analyze match failed: %v", err)
	}

	if analysis.TeamA.ID != "t-1" || analysis.TeamB.ID != "t-2" {
		t.Fatalf("unexpected teams: %+v vs %+v", analysis.TeamA, analysis.TeamB)
	}
	if analysis.HeadToHead.Played != 1 || analysis.HeadToHead.AWins != 1 || analysis.HeadToHead.BWins != 0 {
		t.Fatalf("unexpected head-to-head: %+v", analysis.HeadToHead)
	}
	if analysis.FormA.Played != 2 || analysis.FormA.Wins != 1 {
		t.Fatalf("unexpected form A: %+v", analysis.FormA)
	}
	if analysis.FormB.Played != 2 || analysis.FormB.Wins != 2 {
		t.Fatalf("unexpected form B: %+v", analysis.FormB)
	}
	if analysis.Outcome.Probability <= 0 || analysis.Outcome.Probability >= 1 {
		t.Fatalf("probability out of range: %v", analysis.Outcome.Probability)
	}
	if analysis.Upcoming != nil {
		t.Fatalf("sports analysis must not report a fixture, got %+v", analysis.Upcoming)
	}
}

func TestAnalysisService_AnalyzeMatch_EsportsPairsFixture(t *testing.T) {
	t.Parallel()

	t1 := match.Team{ID: "126061", Name: "T1", Acronym: "T1"}
	geng := match.Team{ID: "126062", Name: "Gen.G", Acronym: "GEN"}
	drx := match.Team{ID: "126063", Name: "DRX"}
	start := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	esports := &stubEsportsProvider{
		enabled: true,
		upcoming: map[string][]match.Record{
			"lol": {
				{
					ID:        "m-50",
					Title:     "T1 vs Gen.G",
					BeginAt:   beginAt(start),
					Status:    match.StatusNotStarted,
					League:    "LCK",
					Opponents: []match.Team{geng, t1},
				},
			},
		},
		history: map[string][]match.Record{
			"lol:126061": {
				decidedMatch("m-40", t1, geng, "126061"),
				decidedMatch("m-41", t1, drx, "126061"),
			},
			"lol:126062": {
				decidedMatch("m-42", geng, drx, "126062"),
			},
		},
	}
	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	analysis, err := svc.AnalyzeMatch(t.Context(), "lol", "t1", "gen")
	if err != nil {
		t.Fatalf("analyze match failed: %v", err)
	}

	if analysis.TeamA.ID != "126061" || analysis.TeamB.ID != "126062" {
		t.Fatalf("pairing assigned wrong slots: %+v vs %+v", analysis.TeamA, analysis.TeamB)
	}
	if analysis.Upcoming == nil || analysis.Upcoming.ID != "m-50" {
		t.Fatalf("expected fixture m-50, got %+v", analysis.Upcoming)
	}
	if analysis.HeadToHead.Played != 1 || analysis.HeadToHead.AWins != 1 {
		t.Fatalf("unexpected head-to-head: %+v", analysis.HeadToHead)
	}
	if analysis.FormA.Played != 2 || analysis.FormA.Wins != 2 {
		t.Fatalf("unexpected form A: %+v", analysis.FormA)
	}
	if analysis.Outcome.Picked.ID != "126061" {
		t.Fatalf("expected T1 picked, got %+v", analysis.Outcome.Picked)
	}
}

func TestAnalysisService_AnalyzeMatch_EsportsNoFixture(t *testing.T) {
	t.Parallel()

	esports := &stubEsportsProvider{
		enabled:  true,
		upcoming: map[string][]match.Record{"lol": {}},
	}
	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, esports, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	if _, err := svc.AnalyzeMatch(t.Context(), "lol", "T1", "Gen.G"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisService_AnalyzeMatch_EsportsWithoutToken(t *testing.T) {
	t.Parallel()

	data := NewMatchDataService(memory.NewCacheStore(), &stubSportsProvider{}, &stubEsportsProvider{enabled: false}, time.UTC, nil)
	svc := NewAnalysisService(data, AnalysisConfig{}, nil)

	if _, err := svc.AnalyzeMatch(t.Context(), "lol", "T1", "Gen.G"); !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
}
