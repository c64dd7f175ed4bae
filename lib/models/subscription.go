package models

import (
	"time"
)

// MaxRecipients is the largest number of recipients a single subscription row may
// carry. It matches the push provider's multicast batch limit; registrations past
// the cap roll over into a fresh row sharing the same SubscriptionKey.
const MaxRecipients = 500

type Subscription struct {
	ID              string `gorm:"primaryKey"`
	MatchID         string `gorm:"index:idx_match_type_team"`
	Team1           string
	Team2           string
	MatchStartsAt   time.Time
	TeamInQuestion  string           `gorm:"index:idx_match_type_team"`
	Type            NotificationType `gorm:"index:idx_match_type_team"`
	NumberOfWickets *int
	Recipients      Recipients `gorm:"serializer:json"`
	CreatedAt       time.Time
}

type Subscriptions []Subscription

func (s *Subscription) Key() SubscriptionKey {
	return SubscriptionKey{
		MatchID:         s.MatchID,
		Type:            s.Type,
		TeamInQuestion:  s.TeamInQuestion,
		NumberOfWickets: s.NumberOfWickets,
	}
}

func (s *Subscription) HasRecipient(r Recipient) bool {
	for _, have := range s.Recipients {
		if have == r {
			return true
		}
	}
	return false
}

func (s *Subscription) AtCapacity() bool {
	return len(s.Recipients) >= MaxRecipients
}

// RemoveRecipient drops the recipient if present and reports whether it was held.
func (s *Subscription) RemoveRecipient(r Recipient) bool {
	for i, have := range s.Recipients {
		if have == r {
			s.Recipients = append(s.Recipients[:i], s.Recipients[i+1:]...)
			return true
		}
	}
	return false
}

type Recipient struct {
	Platform string `json:"platform"`
	Token    string `json:"token"`
}

type Recipients []Recipient

func (rs Recipients) Tokens(platform string) []string {
	var tokens []string
	for _, r := range rs {
		if r.Platform == platform {
			tokens = append(tokens, r.Token)
		}
	}
	return tokens
}

func (rs Recipients) Platforms() []string {
	seen := make(map[string]bool)
	var platforms []string
	for _, r := range rs {
		if !seen[r.Platform] {
			seen[r.Platform] = true
			platforms = append(platforms, r.Platform)
		}
	}
	return platforms
}

// SubscriptionKey groups registrations that watch the same condition. Rows sharing
// a key differ only in their recipient lists.
type SubscriptionKey struct {
	MatchID         string
	Type            NotificationType
	TeamInQuestion  string
	NumberOfWickets *int
}
