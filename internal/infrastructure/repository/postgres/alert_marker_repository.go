package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchwatch/matchwatch/internal/domain/alert"
	qb "github.com/matchwatch/matchwatch/internal/platform/querybuilder"
)

// AlertMarkerRepository stores delivery markers. The insert-if-absent
// claim is what keeps alerts at-most-once across restarts and overlapping
// schedulers.
type AlertMarkerRepository struct {
	db *sqlx.DB
}

func NewAlertMarkerRepository(db *sqlx.DB) *AlertMarkerRepository {
	return &AlertMarkerRepository{db: db}
}

// Record claims the marker. It returns true when this call inserted the
// row and false when another delivery already holds it.
func (r *AlertMarkerRepository) Record(ctx context.Context, id alert.ID, sentAt time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, fmt.Errorf("invalid alert marker: %w", err)
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	model := alertMarkerInsertModel{
		ID:     id.String(),
		SentAt: sentAt.UTC(),
	}

	query, args, err := qb.InsertModel("delivered_alert_markers", model, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert alert marker query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert alert marker id=%s: %w", model.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read alert marker insert result id=%s: %w", model.ID, err)
	}

	return affected > 0, nil
}

func (r *AlertMarkerRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("delivered_alert_markers").
		Where(qb.Gte("sent_at", since.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count alert markers query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count alert markers: %w", err)
	}

	return count, nil
}
