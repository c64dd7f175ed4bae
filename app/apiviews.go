package app

import (
	"time"

	"wicketwatch/lib/models"
)

type NotificationView struct {
	ID               string `json:"id"`
	MatchID          string `json:"matchId"`
	Team1            string `json:"team1"`
	Team2            string `json:"team2"`
	MatchStartsAt    string `json:"matchStartsAt"`
	TeamInQuestion   string `json:"teamInQuestion"`
	NotificationType string `json:"notificationType"`
	NumberOfWickets  *int   `json:"numberOfWickets"`
	RecipientCount   int    `json:"recipientCount"`
}

func (view NotificationView) From(entity models.Subscription) NotificationView {
	return NotificationView{
		ID:               entity.ID,
		MatchID:          entity.MatchID,
		Team1:            entity.Team1,
		Team2:            entity.Team2,
		MatchStartsAt:    isoformat(entity.MatchStartsAt),
		TeamInQuestion:   entity.TeamInQuestion,
		NotificationType: string(entity.Type),
		NumberOfWickets:  entity.NumberOfWickets,
		RecipientCount:   len(entity.Recipients),
	}
}

type MatchView struct {
	ID          string `json:"id"`
	MatchID     string `json:"matchId"`
	DateTimeGMT string `json:"dateTimeGmt"`
	MatchType   string `json:"matchType"`
	Status      string `json:"status"`
	MatchState  string `json:"matchState"`
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
}

func (view MatchView) From(entity models.Match) MatchView {
	return MatchView{
		ID:          entity.ID,
		MatchID:     entity.MatchID,
		DateTimeGMT: isoformat(entity.StartTimeGMT),
		MatchType:   entity.MatchType,
		Status:      entity.Status,
		MatchState:  string(entity.State),
		Team1:       entity.Team1,
		Team2:       entity.Team2,
	}
}

type QueryMatchesView struct {
	Count   int64       `json:"count"`
	Matches []MatchView `json:"matches"`
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[T any, U Fromable[T, U]](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}

func isoformat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
