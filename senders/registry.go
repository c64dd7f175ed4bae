package senders

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib/models"
)

// Sender delivers one subscription's notification to a batch of same-platform
// targets (device tokens or email addresses).
type Sender interface {
	SendNotification(ctx context.Context, sub *models.Subscription, targets []string) error
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	return map[string]Sender{
		models.PlatformFCM:   &fcmSender{base},
		models.PlatformEmail: &mailgunSender{base},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
