package sportsdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
)

// sportNames maps internal sport keys to the capitalized labels the
// provider expects in its s= query parameter.
var sportNames = map[string]string{
	"soccer":     "Soccer",
	"basketball": "Basketball",
}

// SportName resolves an internal sport key to the provider's label.
func SportName(sportKey string) (string, bool) {
	name, ok := sportNames[strings.ToLower(strings.TrimSpace(sportKey))]
	return name, ok
}

// SportKeys lists the supported sport keys in a stable order.
func SportKeys() []string {
	return []string{"soccer", "basketball"}
}

func mapEvents(events []apiEvent) []match.Record {
	records := make([]match.Record, 0, len(events))
	for _, event := range events {
		if strings.TrimSpace(event.IDEvent) == "" {
			continue
		}
		records = append(records, mapEvent(event))
	}
	return records
}

func mapEvent(event apiEvent) match.Record {
	record := match.Record{
		ID:      strings.TrimSpace(event.IDEvent),
		Title:   strings.TrimSpace(event.StrEvent),
		BeginAt: parseEventTime(event.StrTimestamp, event.DateEvent, event.StrTime),
		Status:  match.NormalizeStatus(event.StrStatus),
		League:  strings.TrimSpace(event.StrLeague),
		Serie:   strings.TrimSpace(event.StrSeason),
	}

	if id := strings.TrimSpace(event.IDHomeTeam); id != "" {
		record.Opponents = append(record.Opponents, match.Team{ID: id, Name: strings.TrimSpace(event.StrHomeTeam)})
	}
	if id := strings.TrimSpace(event.IDAwayTeam); id != "" {
		record.Opponents = append(record.Opponents, match.Team{ID: id, Name: strings.TrimSpace(event.StrAwayTeam)})
	}

	homeScore, homeOK := parseScore(event.IntHomeScore)
	awayScore, awayOK := parseScore(event.IntAwayScore)

	// Older feeds omit a status on played events and carry only the final
	// score, treat a fully scored event as finished.
	if record.Status == match.StatusUnknown && homeOK && awayOK {
		record.Status = match.StatusFinished
	}

	if record.Status == match.StatusFinished && homeOK && awayOK {
		switch {
		case homeScore > awayScore:
			record.WinnerID = strings.TrimSpace(event.IDHomeTeam)
		case awayScore > homeScore:
			record.WinnerID = strings.TrimSpace(event.IDAwayTeam)
		}
	}

	return record
}

func mapTeam(team apiTeam) match.Team {
	return match.Team{
		ID:      strings.TrimSpace(team.IDTeam),
		Name:    strings.TrimSpace(team.StrTeam),
		Acronym: strings.TrimSpace(team.StrTeamShort),
	}
}

func parseScore(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	score, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return score, true
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseEventTime interprets provider timestamps as UTC. The combined
// strTimestamp wins, otherwise dateEvent plus strTime is assembled. A nil
// return means the kickoff is unknown rather than epoch zero.
func parseEventTime(timestamp, dateYMD, clock string) *time.Time {
	if trimmed := strings.TrimSpace(timestamp); trimmed != "" {
		for _, layout := range timestampLayouts {
			if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		}
	}

	date := strings.TrimSpace(dateYMD)
	if date == "" {
		return nil
	}
	candidates := []string{date}
	if hms := strings.TrimSpace(clock); hms != "" {
		candidates = []string{date + " " + hms, date}
	}
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}
	for _, candidate := range candidates {
		for _, layout := range layouts {
			if parsed, err := time.ParseInLocation(layout, candidate, time.UTC); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		}
	}
	return nil
}
