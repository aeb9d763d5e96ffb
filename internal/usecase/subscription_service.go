package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
)

// SubscriptionService manages per-chat alert preferences. A chat that was
// never written still reads back as the default preference set, so callers
// never see a not-found on the read path.
type SubscriptionService struct {
	subs   subscription.Repository
	logger *logging.Logger
}

func NewSubscriptionService(subs subscription.Repository, logger *logging.Logger) *SubscriptionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubscriptionService{subs: subs, logger: logger}
}

// Get returns the chat's stored preferences, or the defaults when the chat
// has never toggled anything.
func (s *SubscriptionService) Get(ctx context.Context, chatID string) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Get")
	defer span.End()

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return subscription.Subscription{}, fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}

	sub, found, err := s.subs.GetByChatID(ctx, chatID)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("load subscription %s: %w", chatID, err)
	}
	if !found {
		return subscription.New(chatID), nil
	}
	return sub, nil
}

// SetEnabled flips the master alert switch and returns the stored state.
func (s *SubscriptionService) SetEnabled(ctx context.Context, chatID string, enabled bool) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.SetEnabled")
	defer span.End()

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return subscription.Subscription{}, fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}

	if err := s.subs.SetEnabled(ctx, chatID, enabled); err != nil {
		return subscription.Subscription{}, fmt.Errorf("store subscription %s: %w", chatID, err)
	}
	s.logger.InfoContext(ctx, "subscription toggled", "chat_id", chatID, "enabled", enabled)

	return s.Get(ctx, chatID)
}

// SetDomain flips one domain group's switch, leaving the sibling group and
// the master switch exactly as they were.
func (s *SubscriptionService) SetDomain(ctx context.Context, chatID, domain string, enabled bool) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.SetDomain")
	defer span.End()

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return subscription.Subscription{}, fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !subscription.ValidDomain(domain) {
		return subscription.Subscription{}, fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, domain)
	}

	if err := s.subs.SetDomainEnabled(ctx, chatID, domain, enabled); err != nil {
		return subscription.Subscription{}, fmt.Errorf("store subscription %s: %w", chatID, err)
	}
	s.logger.InfoContext(ctx, "subscription domain toggled", "chat_id", chatID, "domain", domain, "enabled", enabled)

	return s.Get(ctx, chatID)
}
