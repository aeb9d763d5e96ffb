package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matchwatch/matchwatch/internal/usecase"
)

func (h *Handler) RunAlertTickJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAlertTickJob")
	defer span.End()

	if h.schedulerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: alert scheduler is not configured", usecase.ErrFeatureUnavailable))
		return
	}

	report, err := h.schedulerService.RunTick(ctx, time.Now())
	if err != nil {
		h.logger.WarnContext(ctx, "manual alert tick failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
