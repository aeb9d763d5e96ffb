package match

import (
	"strings"
	"time"
)

const (
	StatusNotStarted = "not_started"
	StatusRunning    = "running"
	StatusFinished   = "finished"
	StatusUnknown    = "unknown"
)

// Team is one side of a match. Identity is the provider-scoped ID; display
// names must never be used for equality because providers re-spell and
// re-case them freely.
type Team struct {
	ID      string
	Name    string
	Acronym string
}

// Record is the provider-neutral shape of one match. BeginAt is nil when the
// source timestamp was missing or unparsable, which keeps the record out of
// any time-window logic instead of making it falsely eligible.
type Record struct {
	ID        string
	Title     string
	BeginAt   *time.Time
	Status    string
	League    string
	Serie     string
	Opponents []Team
	WinnerID  string
}

// NormalizeStatus maps a provider status onto the canonical set. Anything
// unrecognized becomes StatusUnknown rather than leaking upstream vocabulary.
func NormalizeStatus(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case StatusNotStarted, "ns", "not started", "scheduled":
		return StatusNotStarted
	case StatusRunning, "live", "in progress", "1h", "2h", "ht", "et":
		return StatusRunning
	case StatusFinished, "ft", "aet", "pen", "match finished":
		return StatusFinished
	default:
		return StatusUnknown
	}
}

func (r Record) Finished() bool {
	return r.Status == StatusFinished
}

// HasOpponent reports whether the team with the given id participates.
func (r Record) HasOpponent(teamID string) bool {
	if teamID == "" {
		return false
	}
	for _, t := range r.Opponents {
		if t.ID == teamID {
			return true
		}
	}
	return false
}

// OpponentNames returns both display names, padding missing slots with "TBD".
func (r Record) OpponentNames() (string, string) {
	names := [2]string{"TBD", "TBD"}
	for i, t := range r.Opponents {
		if i >= 2 {
			break
		}
		if t.Name != "" {
			names[i] = t.Name
		}
	}
	return names[0], names[1]
}

// DisplayTitle prefers the provider title and falls back to "A vs B".
func (r Record) DisplayTitle() string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	left, right := r.OpponentNames()
	return left + " vs " + right
}
