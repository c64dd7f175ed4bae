package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type NotificationType string

const (
	ChangeOfInnings NotificationType = "ChangeOfInnings"
	WicketCount     NotificationType = "WicketCount"
)

// ParseNotificationType is case-insensitive; only API input goes through here.
func ParseNotificationType(s string) (NotificationType, error) {
	switch strings.ToLower(s) {
	case "changeofinnings", "inningsstarted":
		return ChangeOfInnings, nil
	case "wicketcount":
		return WicketCount, nil
	default:
		return "", fmt.Errorf("notification type is invalid, accepted values are: 'ChangeOfInnings', 'WicketCount'")
	}
}

type MatchState string

const (
	StateResult  MatchState = "Result"
	StateLive    MatchState = "Live"
	StateFixture MatchState = "Fixture"
)

// UnmarshalJSON accepts the feed's lowercase state labels without leaking that
// convention into the stored representation.
func (m *MatchState) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "result":
		*m = StateResult
	case "live":
		*m = StateLive
	case "fixture":
		*m = StateFixture
	default:
		return fmt.Errorf("unknown match state: %q", s)
	}
	return nil
}

const (
	PlatformFCM   = "fcm"
	PlatformEmail = "email"
)
