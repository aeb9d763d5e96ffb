package match

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "canonical passthrough", value: "finished", want: StatusFinished},
		{name: "uppercase provider code", value: "FT", want: StatusFinished},
		{name: "padded not started", value: "  Not Started ", want: StatusNotStarted},
		{name: "live", value: "live", want: StatusRunning},
		{name: "cancelled is outside the set", value: "canceled", want: StatusUnknown},
		{name: "empty", value: "", want: StatusUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeStatus(tc.value); got != tc.want {
				t.Fatalf("unexpected status: want=%s got=%s", tc.want, got)
			}
		})
	}
}

func TestRecordHasOpponent(t *testing.T) {
	record := Record{Opponents: []Team{{ID: "t1", Name: "Arsenal"}, {ID: "t2", Name: "Chelsea"}}}

	if !record.HasOpponent("t1") {
		t.Fatal("expected t1 to participate")
	}
	if record.HasOpponent("t3") {
		t.Fatal("did not expect t3 to participate")
	}
	if record.HasOpponent("") {
		t.Fatal("empty id must never match")
	}
}

func TestRecordDisplayTitle(t *testing.T) {
	withTitle := Record{Title: "Grand Final", Opponents: []Team{{ID: "t1", Name: "T1"}}}
	if got := withTitle.DisplayTitle(); got != "Grand Final" {
		t.Fatalf("unexpected title: %s", got)
	}

	oneSide := Record{Opponents: []Team{{ID: "t1", Name: "T1"}}}
	if got := oneSide.DisplayTitle(); got != "T1 vs TBD" {
		t.Fatalf("unexpected fallback title: %s", got)
	}

	empty := Record{}
	if got := empty.DisplayTitle(); got != "TBD vs TBD" {
		t.Fatalf("unexpected empty title: %s", got)
	}
}
