package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/matchwatch/matchwatch/internal/domain/subscription"
	qb "github.com/matchwatch/matchwatch/internal/platform/querybuilder"
)

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByChatID(ctx context.Context, chatID string) (subscription.Subscription, bool, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return subscription.Subscription{}, false, fmt.Errorf("chat id is required")
	}

	query, args, err := qb.Select("*").
		From("subscriptions").
		Where(qb.Eq("chat_id", chatID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return subscription.Subscription{}, false, fmt.Errorf("build get subscription query: %w", err)
	}

	var row subscriptionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return subscription.Subscription{}, false, nil
		}
		return subscription.Subscription{}, false, fmt.Errorf("get subscription chat_id=%s: %w", chatID, err)
	}

	return subscriptionFromRow(row), true, nil
}

// SetEnabled flips the master alert switch. New rows pick up the default
// domain toggles, existing rows keep theirs untouched.
func (r *SubscriptionRepository) SetEnabled(ctx context.Context, chatID string, enabled bool) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}

	base := subscription.New(chatID)
	base.Enabled = enabled

	query, args, err := qb.InsertModel("subscriptions", subscriptionInsertModelFrom(base), `ON CONFLICT (chat_id)
DO UPDATE SET
    enabled = EXCLUDED.enabled,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert subscription enabled query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert subscription enabled chat_id=%s: %w", chatID, err)
	}

	return nil
}

// SetDomainEnabled flips a single domain toggle without touching its
// sibling or the master switch.
func (r *SubscriptionRepository) SetDomainEnabled(ctx context.Context, chatID, domain string, enabled bool) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}

	base := subscription.New(chatID)
	var column string
	switch domain {
	case subscription.DomainSports:
		column = "sports_enabled"
		base.SportsEnabled = enabled
	case subscription.DomainEsports:
		column = "esports_enabled"
		base.EsportsEnabled = enabled
	default:
		return fmt.Errorf("unknown subscription domain %q", domain)
	}

	suffix := fmt.Sprintf(`ON CONFLICT (chat_id)
DO UPDATE SET
    %s = EXCLUDED.%s,
    updated_at = NOW()`, column, column)

	query, args, err := qb.InsertModel("subscriptions", subscriptionInsertModelFrom(base), suffix)
	if err != nil {
		return fmt.Errorf("build upsert subscription domain query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert subscription domain chat_id=%s domain=%s: %w", chatID, domain, err)
	}

	return nil
}

func (r *SubscriptionRepository) ListEnabled(ctx context.Context) ([]subscription.Subscription, error) {
	query, args, err := qb.Select("*").
		From("subscriptions").
		Where(qb.Eq("enabled", true)).
		OrderBy("chat_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list enabled subscriptions query: %w", err)
	}

	var rows []subscriptionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list enabled subscriptions: %w", err)
	}

	subs := make([]subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, subscriptionFromRow(row))
	}
	return subs, nil
}

func (r *SubscriptionRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("subscriptions").
		Where(qb.Eq("enabled", true)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count subscriptions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count enabled subscriptions: %w", err)
	}

	return count, nil
}

func subscriptionFromRow(row subscriptionTableModel) subscription.Subscription {
	return subscription.Subscription{
		ChatID:         strings.TrimSpace(row.ChatID),
		Enabled:        row.Enabled,
		SportsEnabled:  row.SportsEnabled,
		EsportsEnabled: row.EsportsEnabled,
	}
}

func subscriptionInsertModelFrom(sub subscription.Subscription) subscriptionInsertModel {
	return subscriptionInsertModel{
		ChatID:         sub.ChatID,
		Enabled:        sub.Enabled,
		SportsEnabled:  sub.SportsEnabled,
		EsportsEnabled: sub.EsportsEnabled,
	}
}
