package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/matchwatch/matchwatch/internal/usecase"
)

type Handler struct {
	matchDataService    *usecase.MatchDataService
	analysisService     *usecase.AnalysisService
	subscriptionService *usecase.SubscriptionService
	schedulerService    *usecase.AlertSchedulerService
	statusService       *usecase.StatusService
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchDataService *usecase.MatchDataService,
	analysisService *usecase.AnalysisService,
	subscriptionService *usecase.SubscriptionService,
	schedulerService *usecase.AlertSchedulerService,
	statusService *usecase.StatusService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		matchDataService:    matchDataService,
		analysisService:     analysisService,
		subscriptionService: subscriptionService,
		schedulerService:    schedulerService,
		statusService:       statusService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// toggleRequest is the body of every subscription switch. Enabled is a
// pointer so an absent flag fails validation instead of silently reading as
// false.
type toggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func decodeToggleRequest(r *http.Request) (toggleRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req toggleRequest
	if err := decoder.Decode(&req); err != nil {
		return toggleRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
