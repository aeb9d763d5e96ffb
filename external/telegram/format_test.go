package telegram

import (
	"testing"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
)

func TestFormatAlertText(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	item := alert.Notification{
		ChatID:      "777",
		Domain:      "esports",
		Competition: "lol",
		Title:       "T1 vs Gen.G",
		League:      "LCK",
		StartAt:     time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		LeadMinutes: 10,
	}

	got := formatAlertText(item, seoul)
	want := "⏰ Starting within 10 min!\n[lol] T1 vs Gen.G\nTime: 03/14 18:30 KST\nLeague: LCK"
	if got != want {
		t.Fatalf("unexpected alert text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatAlertTextWithoutLeagueOrZone(t *testing.T) {
	t.Parallel()

	item := alert.Notification{
		ChatID:      "777",
		Domain:      "sports",
		Competition: "soccer",
		Title:       "Arsenal vs Chelsea",
		StartAt:     time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		LeadMinutes: 5,
	}

	got := formatAlertText(item, nil)
	want := "⏰ Starting within 5 min!\n[soccer] Arsenal vs Chelsea\nTime: 03/14 09:30 UTC"
	if got != want {
		t.Fatalf("unexpected alert text:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatAlertTextUnscheduled(t *testing.T) {
	t.Parallel()

	item := alert.Notification{
		ChatID:      "777",
		Domain:      "sports",
		Competition: "basketball",
		Title:       "Lakers vs Celtics",
		LeadMinutes: 10,
	}

	got := formatAlertText(item, time.UTC)
	want := "⏰ Starting within 10 min!\n[basketball] Lakers vs Celtics\nTime: TBD"
	if got != want {
		t.Fatalf("unexpected alert text:\ngot:  %q\nwant: %q", got, want)
	}
}
