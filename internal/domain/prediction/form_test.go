package prediction

import (
	"testing"

	"github.com/matchwatch/matchwatch/internal/domain/match"
)

func decided(id, teamA, teamB, winnerID string) match.Record {
	return match.Record{
		ID:     id,
		Status: match.StatusFinished,
		Opponents: []match.Team{
			{ID: teamA, Name: "name-" + teamA},
			{ID: teamB, Name: "name-" + teamB},
		},
		WinnerID: winnerID,
	}
}

func TestRecentFormEmptyHistory(t *testing.T) {
	stat := RecentForm("t1", nil, 5)
	if stat.Wins != 0 || stat.Played != 0 || stat.WinRate != 0.0 {
		t.Fatalf("unexpected stat for empty history: %+v", stat)
	}
}

func TestRecentFormAllWins(t *testing.T) {
	history := []match.Record{
		decided("m1", "t1", "x1", "t1"),
		decided("m2", "t1", "x2", "t1"),
		decided("m3", "t1", "x3", "t1"),
		decided("m4", "t1", "x4", "t1"),
		decided("m5", "t1", "x5", "t1"),
	}

	stat := RecentForm("t1", history, 5)
	if stat.Wins != 5 || stat.Played != 5 || stat.WinRate != 1.0 {
		t.Fatalf("unexpected stat: %+v", stat)
	}
}

func TestRecentFormSkipsNonQualifying(t *testing.T) {
	running := decided("m2", "t1", "x2", "")
	running.Status = match.StatusRunning
	history := []match.Record{
		decided("m1", "t1", "x1", "t1"),
		running,
		decided("m3", "t1", "x3", ""),   // finished but void, no winner
		decided("m4", "x4", "x5", "x4"), // t1 not a participant
		decided("m5", "t1", "x6", "x6"),
	}

	stat := RecentForm("t1", history, 10)
	if stat.Wins != 1 || stat.Played != 2 {
		t.Fatalf("unexpected stat: %+v", stat)
	}
	if stat.WinRate != 0.5 {
		t.Fatalf("unexpected win rate: %v", stat.WinRate)
	}
}

func TestRecentFormStopsAtN(t *testing.T) {
	history := []match.Record{
		decided("m1", "t1", "x1", "t1"),
		decided("m2", "t1", "x2", "t1"),
		decided("m3", "t1", "x3", "x3"),
		decided("m4", "t1", "x4", "t1"),
	}

	stat := RecentForm("t1", history, 2)
	if stat.Wins != 2 || stat.Played != 2 {
		t.Fatalf("expected the scan to stop after 2 counted matches: %+v", stat)
	}
}

func TestRecentFormMatchesByIDNotName(t *testing.T) {
	sameNameOtherID := match.Record{
		ID:     "m1",
		Status: match.StatusFinished,
		Opponents: []match.Team{
			{ID: "t9", Name: "Arsenal"},
			{ID: "x1", Name: "Chelsea"},
		},
		WinnerID: "t9",
	}

	stat := RecentForm("t1", []match.Record{sameNameOtherID}, 5)
	if stat.Played != 0 {
		t.Fatalf("name collision must not count: %+v", stat)
	}
}

func TestHeadToHeadTallies(t *testing.T) {
	history := []match.Record{
		decided("m1", "a", "b", "a"),
		decided("m2", "a", "x1", "a"),
		decided("m3", "b", "a", "b"),
		decided("m4", "a", "b", "a"),
	}

	stat := HeadToHead("a", "b", history, 10)
	if stat.AWins != 2 || stat.BWins != 1 || stat.Played != 3 {
		t.Fatalf("unexpected stat: %+v", stat)
	}
}

func TestHeadToHeadLimitBoundsPositionsNotMatches(t *testing.T) {
	history := []match.Record{
		decided("m1", "a", "x1", "a"),
		decided("m2", "a", "x2", "x2"),
		decided("m3", "a", "b", "a"), // position 3, beyond limit 2
	}

	stat := HeadToHead("a", "b", history, 2)
	if stat.Played != 0 {
		t.Fatalf("expected the qualifying match beyond the window to stay invisible: %+v", stat)
	}

	stat = HeadToHead("a", "b", history, 3)
	if stat.AWins != 1 || stat.Played != 1 {
		t.Fatalf("unexpected stat with wider window: %+v", stat)
	}
}

func TestHeadToHeadExcludesVoidResults(t *testing.T) {
	history := []match.Record{
		decided("m1", "a", "b", ""),
		decided("m2", "a", "b", "b"),
	}

	stat := HeadToHead("a", "b", history, 10)
	if stat.AWins != 0 || stat.BWins != 1 || stat.Played != 1 {
		t.Fatalf("void result leaked into the tally: %+v", stat)
	}
}
