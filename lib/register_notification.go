package lib

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib/models"
)

type RegisterNotificationRequest struct {
	RegistrationToken string    `json:"registrationToken"`
	Platform          string    `json:"platform"`
	MatchID           string    `json:"matchId"`
	Team1             string    `json:"team1"`
	Team2             string    `json:"team2"`
	MatchStartsAt     time.Time `json:"matchStartsAt"`
	TeamInQuestion    string    `json:"teamInQuestion"`
	NotificationType  string    `json:"notificationType"`
	NumberOfWickets   *int      `json:"numberOfWickets"`
}

func (r *RegisterNotificationRequest) validate(now time.Time) (models.NotificationType, models.Recipient, error) {
	for _, field := range []struct {
		name, value string
	}{
		{"RegistrationToken", r.RegistrationToken},
		{"MatchId", r.MatchID},
		{"Team1", r.Team1},
		{"Team2", r.Team2},
		{"TeamInQuestion", r.TeamInQuestion},
	} {
		if strings.TrimSpace(field.value) == "" {
			return "", models.Recipient{}, requestErrorf("field %s must be provided", field.name)
		}
	}

	notifType, err := models.ParseNotificationType(r.NotificationType)
	if err != nil {
		return "", models.Recipient{}, &RequestError{Reason: err.Error()}
	}
	if notifType == models.WicketCount && r.NumberOfWickets == nil {
		return "", models.Recipient{}, requestErrorf("NumberOfWickets must be provided when notification is of type WicketCount")
	}

	platform := r.Platform
	if platform == "" {
		platform = models.PlatformFCM
	}
	if platform != models.PlatformFCM && platform != models.PlatformEmail {
		return "", models.Recipient{}, requestErrorf("platform is invalid, accepted values are: 'fcm', 'email'")
	}

	if !r.MatchStartsAt.After(now) {
		return "", models.Recipient{}, requestErrorf("MatchStartsAt must be in the future")
	}

	return notifType, models.Recipient{Platform: platform, Token: r.RegistrationToken}, nil
}

type registerNotification struct {
	cfg *config.Config
	log *zap.Logger
	db  Store
}

// RegisterNotification adds the recipient to the subscription watching the
// requested condition, creating the row on first registration. A row at the
// provider's recipient cap rolls over into a fresh row on the same key.
func (svc *registerNotification) RegisterNotification(ctx context.Context, req *RegisterNotificationRequest) (*models.Subscription, error) {
	notifType, recipient, err := req.validate(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	key := models.SubscriptionKey{
		MatchID:         req.MatchID,
		Type:            notifType,
		TeamInQuestion:  req.TeamInQuestion,
		NumberOfWickets: req.NumberOfWickets,
	}

	// Best-effort lookup only; a match missing from the stored catalog does
	// not block registration.
	if match, err := svc.db.FindMatch(ctx, req.MatchID); err != nil {
		return nil, err
	} else if match == nil {
		svc.log.Sugar().Infof("Registering against match %s absent from the stored catalog", req.MatchID)
	}

	existing, err := svc.db.FindSubscriptionsByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	for i := range existing {
		sub := &existing[i]
		if sub.HasRecipient(recipient) {
			return sub, nil
		}
	}
	for i := range existing {
		sub := &existing[i]
		if sub.AtCapacity() {
			continue
		}
		sub.Recipients = append(sub.Recipients, recipient)
		if err := svc.db.SaveSubscription(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub := &models.Subscription{
		ID:              uuid.NewString(),
		MatchID:         req.MatchID,
		Team1:           req.Team1,
		Team2:           req.Team2,
		MatchStartsAt:   req.MatchStartsAt.UTC(),
		TeamInQuestion:  req.TeamInQuestion,
		Type:            notifType,
		NumberOfWickets: req.NumberOfWickets,
		Recipients:      models.Recipients{recipient},
	}
	if err := svc.db.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	svc.log.Sugar().Infof("Created subscription id:%s match:%s type:%s", sub.ID, sub.MatchID, sub.Type)
	return sub, nil
}
