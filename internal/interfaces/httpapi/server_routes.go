package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/today", handler.ListTodayMatches)
	mux.HandleFunc("GET /v1/teams/search", handler.SearchTeam)
	mux.HandleFunc("GET /v1/analysis", handler.GetMatchAnalysis)
	mux.HandleFunc("GET /v1/subscriptions/{chatID}", handler.GetSubscription)
	mux.HandleFunc("PUT /v1/subscriptions/{chatID}", handler.SetSubscription)
	mux.HandleFunc("PUT /v1/subscriptions/{chatID}/domains/{domain}", handler.SetSubscriptionDomain)
	mux.HandleFunc("GET /v1/status", handler.GetStatus)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/alert-tick", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAlertTickJob)))
}
