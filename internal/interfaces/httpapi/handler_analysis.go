package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchAnalysis")
	defer span.End()

	query := r.URL.Query()
	domain := strings.TrimSpace(query.Get("domain"))
	if domain == "" {
		// "game" is the older name for the same selector.
		domain = strings.TrimSpace(query.Get("game"))
	}
	teamA := query.Get("team_a")
	teamB := query.Get("team_b")

	analysis, err := h.analysisService.AnalyzeMatch(ctx, domain, teamA, teamB)
	if err != nil {
		h.logger.WarnContext(ctx, "match analysis failed",
			"domain", domain, "team_a", teamA, "team_b", teamB, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchAnalysisToDTO(ctx, analysis))
}
