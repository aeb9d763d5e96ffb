package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchwatch/matchwatch/internal/usecase"
)

func (h *Handler) ListTodayMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayMatches")
	defer span.End()

	domain := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("domain")))
	if domain == "" {
		writeError(ctx, w, fmt.Errorf("%w: domain query parameter is required", usecase.ErrInvalidInput))
		return
	}

	matches, err := h.matchDataService.TodayMatches(ctx, domain)
	if err != nil {
		h.logger.WarnContext(ctx, "list today matches failed", "domain", domain, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, todayMatchesDTO{
		Domain:  domain,
		Date:    h.matchDataService.Today(),
		Matches: recordsToDTO(ctx, matches),
	})
}

func (h *Handler) SearchTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeam")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	analysis, err := h.analysisService.AnalyzeTeam(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "team search failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamAnalysisToDTO(ctx, analysis))
}
