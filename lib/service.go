package lib

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib/models"
)

const matchQueryPageSize = 10

// ErrNotFound reports an operation against a subscription or token that does
// not exist.
var ErrNotFound = errors.New("not found")

// RequestError is a rejected-request outcome with a human-readable reason.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string { return e.Reason }

func requestErrorf(format string, args ...any) error {
	return &RequestError{Reason: fmt.Sprintf(format, args...)}
}

// Store is the storage surface the API-facing operations consume.
type Store interface {
	FindSubscriptionsByKey(ctx context.Context, key models.SubscriptionKey) (models.Subscriptions, error)
	FindSubscriptionsByRecipient(ctx context.Context, recipient models.Recipient) (models.Subscriptions, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	SaveSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscriptions(ctx context.Context, ids []string) error
	FindMatch(ctx context.Context, matchID string) (*models.Match, error)
	QueryMatches(ctx context.Context, matchType string, offset, limit int) (models.Matches, int64, error)
}

type Service struct {
	cfg *config.Config
	log *zap.Logger
	db  Store

	*registerNotification
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db Store) *Service {
	return &Service{
		cfg, log, db,
		&registerNotification{cfg, log, db},
	}
}

// UnregisterNotification removes a recipient from the subscription holding it
// for the given key; removing the last recipient deletes the row.
func (svc *Service) UnregisterNotification(ctx context.Context, key models.SubscriptionKey, recipient models.Recipient) error {
	subs, err := svc.db.FindSubscriptionsByKey(ctx, key)
	if err != nil {
		return err
	}

	for i := range subs {
		sub := &subs[i]
		if !sub.RemoveRecipient(recipient) {
			continue
		}
		if len(sub.Recipients) == 0 {
			return svc.db.DeleteSubscriptions(ctx, []string{sub.ID})
		}
		return svc.db.SaveSubscription(ctx, sub)
	}
	return ErrNotFound
}

// ListNotifications returns every subscription the recipient is registered on.
func (svc *Service) ListNotifications(ctx context.Context, recipient models.Recipient) (models.Subscriptions, error) {
	return svc.db.FindSubscriptionsByRecipient(ctx, recipient)
}

var validMatchTypes = []string{"t20", "odi", "test", "county"}

// QueryMatches pages through the stored match catalog.
func (svc *Service) QueryMatches(ctx context.Context, matchType string, page int) (models.Matches, int64, error) {
	if matchType != "" && !contains(validMatchTypes, matchType) {
		return nil, 0, requestErrorf("invalid MatchType, possible values are: t20, odi, test, county")
	}
	if page < 1 {
		return nil, 0, requestErrorf("PageNumber must be greater than 0")
	}

	offset := (page - 1) * matchQueryPageSize
	return svc.db.QueryMatches(ctx, matchType, offset, matchQueryPageSize)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
