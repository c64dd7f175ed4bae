package store

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wicketwatch/lib/models"
)

// Store is the gorm-backed implementation of every narrow storage contract the
// engine, ingestion task and API service consume.
type Store struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewStore(lc fx.Lifecycle, log *zap.Logger, db *gorm.DB) *Store {
	return &Store{log, db}
}

func (s *Store) GetActiveSubscriptions(ctx context.Context) (models.Subscriptions, error) {
	var subs models.Subscriptions
	tx := s.db.WithContext(ctx).Find(&subs)
	return subs, tx.Error
}

func (s *Store) DeleteSubscriptions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx := s.db.WithContext(ctx).Delete(&models.Subscription{}, "id IN ?", ids)
	return tx.Error
}

// FindSubscriptionsByKey returns every row sharing the composite key, oldest
// first. More than one row exists once the first hit the recipient cap.
func (s *Store) FindSubscriptionsByKey(ctx context.Context, key models.SubscriptionKey) (models.Subscriptions, error) {
	q := s.db.WithContext(ctx).
		Where("match_id = ?", key.MatchID).
		Where("type = ?", key.Type).
		Where("team_in_question = ?", key.TeamInQuestion)
	if key.NumberOfWickets == nil {
		q = q.Where("number_of_wickets IS NULL")
	} else {
		q = q.Where("number_of_wickets = ?", *key.NumberOfWickets)
	}

	var subs models.Subscriptions
	tx := q.Order("created_at").Find(&subs)
	return subs, tx.Error
}

func (s *Store) FindSubscriptionsByRecipient(ctx context.Context, recipient models.Recipient) (models.Subscriptions, error) {
	subs, err := s.GetActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	var matched models.Subscriptions
	for _, sub := range subs {
		if sub.HasRecipient(recipient) {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	tx := s.db.WithContext(ctx).Create(sub)
	return tx.Error
}

func (s *Store) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	tx := s.db.WithContext(ctx).Save(sub)
	return tx.Error
}

// FindMatch looks up a stored match by its upstream id on any stored day,
// newest snapshot first.
func (s *Store) FindMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	tx := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("date_stored desc").
		First(&match)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Store) QueryMatches(ctx context.Context, matchType string, offset, limit int) (models.Matches, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Match{})
	if matchType != "" {
		q = q.Where("match_type = ?", matchType)
	}

	var count int64
	if tx := q.Count(&count); tx.Error != nil {
		return nil, 0, tx.Error
	}

	var matches models.Matches
	tx := q.Order("start_time_gmt").Offset(offset).Limit(limit).Find(&matches)
	return matches, count, tx.Error
}

func (s *Store) InsertMatches(ctx context.Context, matches models.Matches) error {
	tx := s.db.WithContext(ctx).Create(&matches)
	return tx.Error
}

func (s *Store) CountMatchesStoredOn(ctx context.Context, date string) (int64, error) {
	var count int64
	tx := s.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("date_stored = ?", date).
		Count(&count)
	return count, tx.Error
}

func (s *Store) DeleteMatchesOlderThan(ctx context.Context, date string) error {
	tx := s.db.WithContext(ctx).Delete(&models.Match{}, "date_stored < ?", date)
	if tx.Error == nil && tx.RowsAffected > 0 {
		s.log.Sugar().Infof("Purged %d stored matches older than %s", tx.RowsAffected, date)
	}
	return tx.Error
}
