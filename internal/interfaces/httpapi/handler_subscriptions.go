package httpapi

import "net/http"

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSubscription")
	defer span.End()

	chatID := r.PathValue("chatID")
	sub, err := h.subscriptionService.Get(ctx, chatID)
	if err != nil {
		h.logger.WarnContext(ctx, "get subscription failed", "chat_id", chatID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, subscriptionToDTO(sub))
}

func (h *Handler) SetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSubscription")
	defer span.End()

	chatID := r.PathValue("chatID")
	req, err := decodeToggleRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sub, err := h.subscriptionService.SetEnabled(ctx, chatID, *req.Enabled)
	if err != nil {
		h.logger.WarnContext(ctx, "set subscription failed", "chat_id", chatID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, subscriptionToDTO(sub))
}

func (h *Handler) SetSubscriptionDomain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSubscriptionDomain")
	defer span.End()

	chatID := r.PathValue("chatID")
	domain := r.PathValue("domain")
	req, err := decodeToggleRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sub, err := h.subscriptionService.SetDomain(ctx, chatID, domain, *req.Enabled)
	if err != nil {
		h.logger.WarnContext(ctx, "set subscription domain failed",
			"chat_id", chatID, "domain", domain, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, subscriptionToDTO(sub))
}
