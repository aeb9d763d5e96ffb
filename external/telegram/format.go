package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchwatch/matchwatch/internal/domain/alert"
)

// Notify renders and delivers one pre-match alert. Presentation lives here,
// downstream of the scheduler's structured payload.
func (n *Notifier) Notify(ctx context.Context, item alert.Notification) error {
	return n.SendMessage(ctx, item.ChatID, formatAlertText(item, n.displayIn))
}

func formatAlertText(item alert.Notification, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Starting within %d min!\n", item.LeadMinutes)
	fmt.Fprintf(&b, "[%s] %s\n", item.Competition, item.Title)
	if item.StartAt.IsZero() {
		b.WriteString("Time: TBD")
	} else {
		fmt.Fprintf(&b, "Time: %s", item.StartAt.In(loc).Format("01/02 15:04 MST"))
	}
	if item.League != "" {
		fmt.Fprintf(&b, "\nLeague: %s", item.League)
	}
	return b.String()
}
