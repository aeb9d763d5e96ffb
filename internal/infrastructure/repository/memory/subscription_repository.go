package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/matchwatch/matchwatch/internal/domain/subscription"
)

type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]subscription.Subscription
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]subscription.Subscription)}
}

func (r *SubscriptionRepository) GetByChatID(_ context.Context, chatID string) (subscription.Subscription, bool, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return subscription.Subscription{}, false, fmt.Errorf("chat id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[chatID]
	return sub, ok, nil
}

func (r *SubscriptionRepository) SetEnabled(_ context.Context, chatID string, enabled bool) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[chatID]
	if !ok {
		sub = subscription.New(chatID)
	}
	sub.Enabled = enabled
	r.subs[chatID] = sub

	return nil
}

func (r *SubscriptionRepository) SetDomainEnabled(_ context.Context, chatID, domain string, enabled bool) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[chatID]
	if !ok {
		sub = subscription.New(chatID)
	}
	switch domain {
	case subscription.DomainSports:
		sub.SportsEnabled = enabled
	case subscription.DomainEsports:
		sub.EsportsEnabled = enabled
	default:
		return fmt.Errorf("unknown subscription domain %q", domain)
	}
	r.subs[chatID] = sub

	return nil
}

func (r *SubscriptionRepository) ListEnabled(_ context.Context) ([]subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subscription.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		if sub.Enabled {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })

	return out, nil
}

func (r *SubscriptionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.subs {
		if sub.Enabled {
			count++
		}
	}

	return count, nil
}
