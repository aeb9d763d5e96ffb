package pandascore

import (
	"strconv"
	"strings"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
)

// videogameSlugs maps the short game keys users type to the provider's
// videogame slugs. cs2 still rides the legacy cs-go slug upstream.
var videogameSlugs = map[string]string{
	"lol":      "league-of-legends",
	"valorant": "valorant",
	"cs2":      "cs-go",
	"dota2":    "dota-2",
}

// Slug resolves a user-facing game key to the provider slug.
func Slug(gameKey string) (string, bool) {
	slug, ok := videogameSlugs[strings.ToLower(strings.TrimSpace(gameKey))]
	return slug, ok
}

// GameKeys lists the supported game keys in a stable order.
func GameKeys() []string {
	return []string{"lol", "valorant", "cs2", "dota2"}
}

func mapMatches(items []apiMatch) []match.Record {
	out := make([]match.Record, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapMatch(item))
	}
	return out
}

func mapMatch(item apiMatch) match.Record {
	record := match.Record{
		ID:      strconv.FormatInt(item.ID, 10),
		Title:   strings.TrimSpace(item.Name),
		BeginAt: parseBeginAt(item.BeginAt),
		Status:  match.NormalizeStatus(item.Status),
		League:  strings.TrimSpace(item.League.Name),
		Serie:   strings.TrimSpace(item.Serie.FullName),
	}

	for _, slot := range item.Opponents {
		if slot.Opponent.ID <= 0 {
			continue
		}
		if len(record.Opponents) == 2 {
			break
		}
		record.Opponents = append(record.Opponents, match.Team{
			ID:      strconv.FormatInt(slot.Opponent.ID, 10),
			Name:    strings.TrimSpace(slot.Opponent.Name),
			Acronym: strings.TrimSpace(slot.Opponent.Acronym),
		})
	}

	if item.WinnerID > 0 {
		record.WinnerID = strconv.FormatInt(item.WinnerID, 10)
	}
	return record
}

// parseBeginAt normalizes the provider timestamp to a UTC instant. A string
// without an offset is read as UTC; anything unparsable yields nil so the
// record stays out of time-window logic.
func parseBeginAt(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
