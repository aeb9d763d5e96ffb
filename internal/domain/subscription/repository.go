package subscription

import "context"

// Repository persists per-chat alert preferences. Every write is a single
// upsert that touches only its own column so concurrent toggles never
// clobber sibling flags.
type Repository interface {
	GetByChatID(ctx context.Context, chatID string) (Subscription, bool, error)
	SetEnabled(ctx context.Context, chatID string, enabled bool) error
	SetDomainEnabled(ctx context.Context, chatID, domain string, enabled bool) error
	ListEnabled(ctx context.Context) ([]Subscription, error)
	Count(ctx context.Context) (int, error)
}
