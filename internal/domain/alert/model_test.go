package alert

import "testing"

func TestIDStringEscapesSeparators(t *testing.T) {
	// Naive ":"-joining would render both of these as
	// "esports:lol:A:B:1756100000:42".
	first := ID{
		Domain:      "esports",
		Competition: "lol",
		Title:       "A:B",
		StartUnix:   1756100000,
		ChatID:      "42",
	}
	second := ID{
		Domain:      "esports",
		Competition: "lol:A",
		Title:       "B",
		StartUnix:   1756100000,
		ChatID:      "42",
	}

	if first.String() == second.String() {
		t.Fatalf("distinct ids collided: %s", first.String())
	}
}

func TestIDStringDeterministic(t *testing.T) {
	id := ID{Domain: "sports", Competition: "Soccer", Title: "Arsenal vs Chelsea", StartUnix: 1756100000, ChatID: "7"}

	first := id.String()
	second := id.String()
	if first != second {
		t.Fatalf("id rendering is not stable: %s vs %s", first, second)
	}
	if first == "" {
		t.Fatal("id rendering must not be empty")
	}
}

func TestIDValidate(t *testing.T) {
	valid := ID{Domain: "sports", Competition: "Soccer", Title: "A vs B", StartUnix: 1, ChatID: "7"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := valid
	missing.ChatID = ""
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing chat id")
	}

	zeroStart := valid
	zeroStart.StartUnix = 0
	if err := zeroStart.Validate(); err == nil {
		t.Fatal("expected error for zero start time")
	}
}
