package senders

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/multierr"

	"wicketwatch/lib/models"
)

type mailgunSender struct {
	base
}

func (e *mailgunSender) SendNotification(ctx context.Context, sub *models.Subscription, addresses []string) error {
	mg := mailgun.NewMailgun(e.cfg.Mailgun.Domain, e.cfg.Mailgun.APIKey)
	mg.Client().Transport = e.transport

	subject, body := notificationMessage(sub)

	timeout := time.Duration(e.cfg.Mailgun.TimeoutSecs) * time.Second

	var errs error
	for _, address := range addresses {
		// Create message with empty body first.
		message := mg.NewMessage(e.cfg.Mailgun.SenderFrom, subject, "", address)
		// SetHtml with the payload proper. This will assign the MIME type properly.
		message.SetHtml(emailBody(sub, body))

		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		_, id, err := mg.Send(sendCtx, message)
		cancel()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		e.log.Sugar().Infow("Sent notification email", "subscription_id", sub.ID, "message_id", id)
	}
	return errs
}
