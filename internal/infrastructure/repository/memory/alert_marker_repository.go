package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
)

type AlertMarkerRepository struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

func NewAlertMarkerRepository() *AlertMarkerRepository {
	return &AlertMarkerRepository{markers: make(map[string]time.Time)}
}

// Record claims the marker, returning false when it was already held.
func (r *AlertMarkerRepository) Record(_ context.Context, id alert.ID, sentAt time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, fmt.Errorf("invalid alert marker: %w", err)
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	key := id.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.markers[key]; exists {
		return false, nil
	}
	r.markers[key] = sentAt.UTC()

	return true, nil
}

func (r *AlertMarkerRepository) CountSince(_ context.Context, since time.Time) (int, error) {
	since = since.UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, sentAt := range r.markers {
		if !sentAt.Before(since) {
			count++
		}
	}

	return count, nil
}
