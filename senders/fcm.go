package senders

import (
	"context"
	"time"

	"github.com/carlmjohnson/requests"

	"wicketwatch/lib/models"
)

type fcmSender struct {
	base
}

type fcmMulticastRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMulticastResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// SendNotification multicasts to the device tokens in batches of the
// provider's limit. Individual token failures are reported by the provider in
// the response counts, not as call errors.
func (f *fcmSender) SendNotification(ctx context.Context, sub *models.Subscription, tokens []string) error {
	title, body := notificationMessage(sub)

	timeout := time.Duration(f.cfg.FCM.TimeoutSecs) * time.Second

	for start := 0; start < len(tokens); start += models.MaxRecipients {
		end := start + models.MaxRecipients
		if end > len(tokens) {
			end = len(tokens)
		}

		payload := fcmMulticastRequest{
			RegistrationIDs: tokens[start:end],
			Notification:    fcmNotification{Title: title, Body: body},
			Data: map[string]string{
				"notificationId":   sub.ID,
				"matchId":          sub.MatchID,
				"notificationType": string(sub.Type),
			},
		}

		var resp fcmMulticastResponse
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		err := requests.
			URL(f.cfg.FCM.Endpoint).
			Header("Authorization", "key="+f.cfg.FCM.ServerKey).
			Transport(f.transport).
			BodyJSON(payload).
			ToJSON(&resp).
			Fetch(callCtx)
		cancel()
		if err != nil {
			return err
		}

		if resp.Failure > 0 {
			f.log.Sugar().Warnw("Some device tokens rejected the push",
				"subscription_id", sub.ID, "success", resp.Success, "failure", resp.Failure)
		}
	}
	return nil
}
