package pandascore

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchwatch/matchwatch/internal/domain/match"
)

func TestMapMatchFullPayload(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"id": 912001,
		"name": "T1 vs Gen.G",
		"begin_at": "2026-08-25T09:00:00Z",
		"status": "not_started",
		"winner_id": null,
		"league": {"id": 4197, "name": "LCK"},
		"serie": {"id": 9001, "name": "Summer", "full_name": "Summer 2026"},
		"videogame": {"id": 1, "name": "LoL", "slug": "league-of-legends"},
		"opponents": [
			{"type": "Team", "opponent": {"id": 126061, "name": "T1", "acronym": "T1"}},
			{"type": "Team", "opponent": {"id": 126062, "name": "Gen.G", "acronym": "GEN"}}
		]
	}`)

	var item apiMatch
	if err := sonic.Unmarshal(payload, &item); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	record := mapMatch(item)
	if record.ID != "912001" {
		t.Fatalf("unexpected id: %s", record.ID)
	}
	if record.Status != match.StatusNotStarted {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if record.League != "LCK" || record.Serie != "Summer 2026" {
		t.Fatalf("unexpected league/serie: %s / %s", record.League, record.Serie)
	}
	if len(record.Opponents) != 2 {
		t.Fatalf("unexpected opponents: %+v", record.Opponents)
	}
	if record.Opponents[0].ID != "126061" || record.Opponents[0].Acronym != "T1" {
		t.Fatalf("unexpected first opponent: %+v", record.Opponents[0])
	}
	if record.WinnerID != "" {
		t.Fatalf("winner must be absent: %q", record.WinnerID)
	}
	want := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	if record.BeginAt == nil || !record.BeginAt.Equal(want) {
		t.Fatalf("unexpected begin at: %v", record.BeginAt)
	}
}

func TestMapMatchFinishedWithWinner(t *testing.T) {
	t.Parallel()

	item := apiMatch{
		ID:       912002,
		Status:   "finished",
		WinnerID: 126061,
		Opponents: []apiOpponentSlot{
			{Opponent: apiOpponent{ID: 126061, Name: "T1"}},
			{Opponent: apiOpponent{ID: 126062, Name: "Gen.G"}},
		},
	}

	record := mapMatch(item)
	if !record.Finished() {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if record.WinnerID != "126061" {
		t.Fatalf("unexpected winner: %q", record.WinnerID)
	}
}

func TestMapMatchSkipsEmptyOpponentSlots(t *testing.T) {
	t.Parallel()

	item := apiMatch{
		ID:     912003,
		Status: "not_started",
		Opponents: []apiOpponentSlot{
			{Opponent: apiOpponent{}},
			{Opponent: apiOpponent{ID: 126061, Name: "T1"}},
		},
	}

	record := mapMatch(item)
	if len(record.Opponents) != 1 {
		t.Fatalf("unexpected opponents: %+v", record.Opponents)
	}
	if record.Opponents[0].ID != "126061" {
		t.Fatalf("unexpected opponent: %+v", record.Opponents[0])
	}
}

func TestParseBeginAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
	}{
		{name: "rfc3339 utc", raw: "2026-08-25T09:00:00Z", want: "2026-08-25T09:00:00Z"},
		{name: "rfc3339 with offset", raw: "2026-08-25T18:00:00+09:00", want: "2026-08-25T09:00:00Z"},
		{name: "no offset read as utc", raw: "2026-08-25T09:00:00", want: "2026-08-25T09:00:00Z"},
		{name: "empty", raw: "", wantNil: true},
		{name: "garbage", raw: "soon", wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseBeginAt(tc.raw)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a parsed time")
			}
			if got.Format(time.RFC3339) != tc.want {
				t.Fatalf("unexpected time: %s", got.Format(time.RFC3339))
			}
			if got.Location() != time.UTC {
				t.Fatalf("expected UTC, got %v", got.Location())
			}
		})
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	if slug, ok := Slug("LoL"); !ok || slug != "league-of-legends" {
		t.Fatalf("unexpected slug: %s ok=%v", slug, ok)
	}
	if slug, ok := Slug("cs2"); !ok || slug != "cs-go" {
		t.Fatalf("unexpected slug: %s ok=%v", slug, ok)
	}
	if _, ok := Slug("starcraft"); ok {
		t.Fatal("unsupported game must not resolve")
	}
}
