package alert

import (
	"context"
	"time"
)

// Repository stores delivered-alert markers. The table is append-only:
// markers are written before dispatch and never removed, which is what makes
// delivery at-most-once across restarts.
type Repository interface {
	// Record writes the marker if absent. It reports true when this call
	// claimed the id and false when a marker already existed, atomically,
	// so two evaluations of the same alert can never both dispatch.
	Record(ctx context.Context, id ID, sentAt time.Time) (bool, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
