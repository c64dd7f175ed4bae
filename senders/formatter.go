package senders

import (
	"fmt"

	"wicketwatch/lib/models"
)

// notificationMessage renders the human-facing title and body for a satisfied
// subscription, shared by every platform.
func notificationMessage(sub *models.Subscription) (title, body string) {
	fixture := fmt.Sprintf("%s v %s", sub.Team1, sub.Team2)

	switch sub.Type {
	case models.WicketCount:
		wickets := 0
		if sub.NumberOfWickets != nil {
			wickets = *sub.NumberOfWickets
		}
		title = fmt.Sprintf("%s have lost %d wickets", sub.TeamInQuestion, wickets)
		body = fmt.Sprintf("%s: %s are %d wickets down.", fixture, sub.TeamInQuestion, wickets)
	default:
		title = fmt.Sprintf("%s are coming in to bat", sub.TeamInQuestion)
		body = fmt.Sprintf("%s: the innings has changed, %s are in.", fixture, sub.TeamInQuestion)
	}
	return title, body
}

func emailBody(sub *models.Subscription, body string) string {
	return fmt.Sprintf(
		`
			<h3>%s v %s</h3>
			<p>%s</p>
		`,
		sub.Team1, sub.Team2, body,
	)
}
