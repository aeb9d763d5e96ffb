package prediction

import "github.com/matchwatch/matchwatch/internal/domain/match"

// FormStat summarizes a team's recent results. Played counts only finished
// matches with a known winner, so a 0 here means "insufficient data", never
// "lost everything".
type FormStat struct {
	Wins    int
	Played  int
	WinRate float64
}

// HeadToHeadStat counts decided meetings between two teams inside one team's
// recent-history window.
type HeadToHeadStat struct {
	AWins  int
	BWins  int
	Played int
}

// RecentForm scans history newest-first and tallies up to n qualifying
// results for the team. A record qualifies when it is finished, the team
// participates, and the winner is known; void or drawn fixtures stay out of
// the denominator.
func RecentForm(teamID string, history []match.Record, n int) FormStat {
	stat := FormStat{}
	if teamID == "" || n <= 0 {
		return stat
	}

	for _, record := range history {
		if stat.Played >= n {
			break
		}
		if !record.Finished() || record.WinnerID == "" {
			continue
		}
		if !record.HasOpponent(teamID) {
			continue
		}
		stat.Played++
		if record.WinnerID == teamID {
			stat.Wins++
		}
	}

	if stat.Played > 0 {
		stat.WinRate = float64(stat.Wins) / float64(stat.Played)
	}
	return stat
}

// HeadToHead tallies decided meetings of both teams found within the first
// limit positions of team A's history. The bound applies to positions
// scanned, not to qualifying matches, so older meetings beyond the window
// are invisible regardless of how few qualified inside it.
func HeadToHead(teamAID, teamBID string, historyOfA []match.Record, limit int) HeadToHeadStat {
	stat := HeadToHeadStat{}
	if teamAID == "" || teamBID == "" || limit <= 0 {
		return stat
	}

	for i, record := range historyOfA {
		if i >= limit {
			break
		}
		if !record.Finished() || record.WinnerID == "" {
			continue
		}
		if !record.HasOpponent(teamAID) || !record.HasOpponent(teamBID) {
			continue
		}
		stat.Played++
		switch record.WinnerID {
		case teamAID:
			stat.AWins++
		case teamBID:
			stat.BWins++
		}
	}
	return stat
}
