package senders

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wicketwatch/lib/models"
)

// Dispatcher fans satisfied subscriptions out through the platform registry.
// Failures are isolated per subscription: one bad send never blocks the rest
// of the batch.
type Dispatcher struct {
	log     *zap.Logger
	senders Registry
}

func NewDispatcher(lc fx.Lifecycle, log *zap.Logger, senders Registry) *Dispatcher {
	return &Dispatcher{log, senders}
}

// SendNotifications returns the ids of subscriptions whose every platform send
// succeeded, plus the aggregated errors for the rest.
func (d *Dispatcher) SendNotifications(ctx context.Context, subs models.Subscriptions) ([]string, error) {
	var delivered []string
	var errs error

	for i := range subs {
		sub := &subs[i]
		if err := d.sendOne(ctx, sub); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
			continue
		}
		delivered = append(delivered, sub.ID)
	}
	return delivered, errs
}

func (d *Dispatcher) sendOne(ctx context.Context, sub *models.Subscription) error {
	var errs error
	for _, platform := range sub.Recipients.Platforms() {
		sender, ok := d.senders[platform]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("unsupported notifier platform: %s", platform))
			continue
		}
		if err := sender.SendNotification(ctx, sub, sub.Recipients.Tokens(platform)); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
