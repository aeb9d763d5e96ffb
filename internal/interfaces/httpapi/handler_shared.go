package httpapi

import (
	"context"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/domain/prediction"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/usecase"
)

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym,omitempty"`
}

type matchRecordDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	BeginAt   string    `json:"begin_at,omitempty"`
	Status    string    `json:"status"`
	League    string    `json:"league,omitempty"`
	Serie     string    `json:"serie,omitempty"`
	Opponents []teamDTO `json:"opponents,omitempty"`
	WinnerID  string    `json:"winner_id,omitempty"`
}

type todayMatchesDTO struct {
	Domain  string           `json:"domain"`
	Date    string           `json:"date"`
	Matches []matchRecordDTO `json:"matches"`
}

type formDTO struct {
	Wins    int     `json:"wins"`
	Played  int     `json:"played"`
	WinRate float64 `json:"win_rate"`
}

type headToHeadDTO struct {
	AWins  int `json:"a_wins"`
	BWins  int `json:"b_wins"`
	Played int `json:"played"`
}

type outcomeDTO struct {
	Picked      teamDTO `json:"picked"`
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
	LowData     bool    `json:"low_data"`
}

type teamAnalysisDTO struct {
	Team   teamDTO          `json:"team"`
	Form   formDTO          `json:"form"`
	Recent []matchRecordDTO `json:"recent"`
}

type matchAnalysisDTO struct {
	Domain     string          `json:"domain"`
	TeamA      teamDTO         `json:"team_a"`
	TeamB      teamDTO         `json:"team_b"`
	FormA      formDTO         `json:"form_a"`
	FormB      formDTO         `json:"form_b"`
	HeadToHead headToHeadDTO   `json:"head_to_head"`
	Outcome    outcomeDTO      `json:"outcome"`
	Upcoming   *matchRecordDTO `json:"upcoming,omitempty"`
}

type subscriptionDTO struct {
	ChatID  string `json:"chat_id"`
	Enabled bool   `json:"enabled"`
	Sports  bool   `json:"sports"`
	Esports bool   `json:"esports"`
}

func teamToDTO(v match.Team) teamDTO {
	return teamDTO{
		ID:      v.ID,
		Name:    v.Name,
		Acronym: v.Acronym,
	}
}

func recordToDTO(ctx context.Context, v match.Record) matchRecordDTO {
	ctx, span := startSpan(ctx, "httpapi.recordToDTO")
	defer span.End()
	_ = ctx

	opponents := make([]teamDTO, 0, len(v.Opponents))
	for _, opp := range v.Opponents {
		opponents = append(opponents, teamToDTO(opp))
	}

	return matchRecordDTO{
		ID:        v.ID,
		Title:     v.DisplayTitle(),
		BeginAt:   formatOptionalTime(v.BeginAt),
		Status:    v.Status,
		League:    v.League,
		Serie:     v.Serie,
		Opponents: opponents,
		WinnerID:  v.WinnerID,
	}
}

func recordsToDTO(ctx context.Context, records []match.Record) []matchRecordDTO {
	out := make([]matchRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, recordToDTO(ctx, rec))
	}
	return out
}

func formToDTO(v prediction.FormStat) formDTO {
	return formDTO{
		Wins:    v.Wins,
		Played:  v.Played,
		WinRate: v.WinRate,
	}
}

func headToHeadToDTO(v prediction.HeadToHeadStat) headToHeadDTO {
	return headToHeadDTO{
		AWins:  v.AWins,
		BWins:  v.BWins,
		Played: v.Played,
	}
}

func outcomeToDTO(v prediction.Outcome) outcomeDTO {
	return outcomeDTO{
		Picked:      teamToDTO(v.Picked),
		Probability: v.Probability,
		Confidence:  v.Confidence,
		LowData:     v.LowData,
	}
}

func teamAnalysisToDTO(ctx context.Context, v usecase.TeamAnalysis) teamAnalysisDTO {
	ctx, span := startSpan(ctx, "httpapi.teamAnalysisToDTO")
	defer span.End()

	return teamAnalysisDTO{
		Team:   teamToDTO(v.Team),
		Form:   formToDTO(v.Form),
		Recent: recordsToDTO(ctx, v.Recent),
	}
}

func matchAnalysisToDTO(ctx context.Context, v usecase.MatchAnalysis) matchAnalysisDTO {
	ctx, span := startSpan(ctx, "httpapi.matchAnalysisToDTO")
	defer span.End()

	dto := matchAnalysisDTO{
		Domain:     v.Domain,
		TeamA:      teamToDTO(v.TeamA),
		TeamB:      teamToDTO(v.TeamB),
		FormA:      formToDTO(v.FormA),
		FormB:      formToDTO(v.FormB),
		HeadToHead: headToHeadToDTO(v.HeadToHead),
		Outcome:    outcomeToDTO(v.Outcome),
	}
	if v.Upcoming != nil {
		upcoming := recordToDTO(ctx, *v.Upcoming)
		dto.Upcoming = &upcoming
	}
	return dto
}

func subscriptionToDTO(v subscription.Subscription) subscriptionDTO {
	return subscriptionDTO{
		ChatID:  v.ChatID,
		Enabled: v.Enabled,
		Sports:  v.SportsEnabled,
		Esports: v.EsportsEnabled,
	}
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
