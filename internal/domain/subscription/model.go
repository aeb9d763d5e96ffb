package subscription

import "fmt"

const (
	DomainSports  = "sports"
	DomainEsports = "esports"
)

// Subscription is one chat's alert preferences. A fresh row starts with
// sports on and esports off; Enabled is the master switch and stays off
// until the subscriber asks for alerts.
type Subscription struct {
	ChatID         string
	Enabled        bool
	SportsEnabled  bool
	EsportsEnabled bool
}

// New returns the default preferences for a chat that has never been seen.
func New(chatID string) Subscription {
	return Subscription{
		ChatID:        chatID,
		SportsEnabled: true,
	}
}

func (s Subscription) Validate() error {
	if s.ChatID == "" {
		return fmt.Errorf("subscription chat id is required")
	}
	return nil
}

// DomainEnabled reports whether the given domain group is switched on.
func (s Subscription) DomainEnabled(domain string) bool {
	switch domain {
	case DomainSports:
		return s.SportsEnabled
	case DomainEsports:
		return s.EsportsEnabled
	default:
		return false
	}
}

// ValidDomain reports whether domain names a toggleable group.
func ValidDomain(domain string) bool {
	return domain == DomainSports || domain == DomainEsports
}
