package alert

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ID identifies one notification: a specific match start announced to a
// specific chat. It is an explicit composite key, not a concatenated string,
// so separator characters inside titles or team names cannot collide.
type ID struct {
	Domain      string
	Competition string
	Title       string
	StartUnix   int64
	ChatID      string
}

func (id ID) Validate() error {
	if id.Domain == "" {
		return fmt.Errorf("alert id domain is required")
	}
	if id.Competition == "" {
		return fmt.Errorf("alert id competition is required")
	}
	if id.StartUnix <= 0 {
		return fmt.Errorf("alert id start time is required")
	}
	if id.ChatID == "" {
		return fmt.Errorf("alert id chat id is required")
	}
	return nil
}

// String renders the key for storage. Free-text segments are query-escaped
// first, which removes every raw ":" before the join and keeps the encoding
// injective.
func (id ID) String() string {
	return strings.Join([]string{
		url.QueryEscape(id.Domain),
		url.QueryEscape(id.Competition),
		url.QueryEscape(id.Title),
		strconv.FormatInt(id.StartUnix, 10),
		url.QueryEscape(id.ChatID),
	}, ":")
}

// Notification is the structured payload handed to the delivery sink. The
// sink owns presentation; this carries only facts.
type Notification struct {
	ChatID      string
	Domain      string
	Competition string
	Title       string
	League      string
	StartAt     time.Time
	LeadMinutes int
}
