package matcher

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/models"
)

// SubscriptionStore is the slice of storage the engine needs.
type SubscriptionStore interface {
	GetActiveSubscriptions(ctx context.Context) (models.Subscriptions, error)
	DeleteSubscriptions(ctx context.Context, ids []string) error
}

// MatchFeed pages through the upstream live-match feed.
type MatchFeed interface {
	CurrentMatches(ctx context.Context, offset int) ([]cricketdata.CurrentMatch, error)
}

// Dispatcher fans a notification out to every recipient of each subscription.
// Delivery is best-effort per subscription; delivered holds the ids whose
// dispatch attempt succeeded.
type Dispatcher interface {
	SendNotifications(ctx context.Context, subs models.Subscriptions) (delivered []string, err error)
}

type Engine struct {
	log        *zap.Logger
	store      SubscriptionStore
	feed       MatchFeed
	dispatcher Dispatcher
}

func NewEngine(lc fx.Lifecycle, log *zap.Logger, store SubscriptionStore, feed MatchFeed, dispatcher Dispatcher) *Engine {
	return &Engine{log, store, feed, dispatcher}
}

// EvaluateCycle runs one matching cycle: load active subscriptions, fetch the
// feed pages needed to cover them, partition into satisfied/expired, dispatch
// the satisfied set and delete everything resolved. Returns the number of
// subscriptions satisfied and delivered.
func (e *Engine) EvaluateCycle(ctx context.Context) (int, error) {
	subs, err := e.store.GetActiveSubscriptions(ctx)
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}

	feed, err := e.fetchRequiredMatches(ctx, subs)
	if err != nil {
		// No feed data this cycle; nothing is notified or deleted.
		return 0, err
	}

	satisfied, expiredIDs := partition(subs, feed)

	m := cycleMetrics{
		active:    len(subs),
		satisfied: len(satisfied),
		expired:   len(expiredIDs),
	}

	toDelete := expiredIDs
	if len(satisfied) > 0 {
		delivered, err := e.dispatcher.SendNotifications(ctx, satisfied)
		if err != nil {
			// Undelivered subscriptions stay active and retry next cycle.
			e.log.Sugar().Warnf("dispatch errors: %+v", err)
		}
		m.delivered = len(delivered)
		toDelete = append(toDelete, delivered...)
	}

	if len(toDelete) > 0 {
		if err := e.store.DeleteSubscriptions(ctx, toDelete); err != nil {
			return m.delivered, err
		}
	}

	m.log(e.log)
	return m.delivered, nil
}

// fetchRequiredMatches fetches page 0 and, when that page does not cover every
// match id the subscriptions reference, one more page. A best-effort two-page
// search: matches still missing afterwards are treated as absent, not errors.
func (e *Engine) fetchRequiredMatches(ctx context.Context, subs models.Subscriptions) (*feedIndex, error) {
	page, err := e.feed.CurrentMatches(ctx, 0)
	if err != nil {
		return nil, err
	}
	idx := newFeedIndex(page)

	if idx.covers(requiredMatchIDs(subs)) {
		return idx, nil
	}

	next, err := e.feed.CurrentMatches(ctx, cricketdata.PageSize)
	if err != nil {
		// Degrade to page 0 only; missing matches stay pending.
		e.log.Sugar().Warnf("failed to fetch feed page at offset %d: %v", cricketdata.PageSize, err)
		return idx, nil
	}
	idx.add(next)
	return idx, nil
}

func requiredMatchIDs(subs models.Subscriptions) []string {
	seen := make(map[string]bool, len(subs))
	var ids []string
	for _, sub := range subs {
		if !seen[sub.MatchID] {
			seen[sub.MatchID] = true
			ids = append(ids, sub.MatchID)
		}
	}
	return ids
}

// partition splits the active set into satisfied subscriptions and expired ids.
// A subscription expires only when its match is present in the feed and has
// ended; a match absent from the fetched pages leaves it pending, tolerating
// pagination gaps. Pure function of its inputs.
func partition(subs models.Subscriptions, feed *feedIndex) (models.Subscriptions, []string) {
	var satisfied models.Subscriptions
	var expiredIDs []string

	for _, sub := range subs {
		match, found := feed.lookup(sub.MatchID)

		if satisfies(&sub, match) {
			satisfied = append(satisfied, sub)
			continue
		}
		if found && match.MatchEnded {
			expiredIDs = append(expiredIDs, sub.ID)
		}
	}
	return satisfied, expiredIDs
}

// feedIndex merges feed pages into an id lookup. A match id seen more than once
// is a data error upstream; lookups on such ids deterministically miss.
type feedIndex struct {
	byID      map[string]*cricketdata.CurrentMatch
	ambiguous map[string]bool
}

func newFeedIndex(matches []cricketdata.CurrentMatch) *feedIndex {
	idx := &feedIndex{
		byID:      make(map[string]*cricketdata.CurrentMatch),
		ambiguous: make(map[string]bool),
	}
	idx.add(matches)
	return idx
}

func (idx *feedIndex) add(matches []cricketdata.CurrentMatch) {
	for i := range matches {
		m := &matches[i]
		if _, exists := idx.byID[m.ID]; exists {
			idx.ambiguous[m.ID] = true
			continue
		}
		idx.byID[m.ID] = m
	}
}

func (idx *feedIndex) lookup(matchID string) (*cricketdata.CurrentMatch, bool) {
	if idx.ambiguous[matchID] {
		return nil, false
	}
	m, ok := idx.byID[matchID]
	return m, ok
}

func (idx *feedIndex) covers(matchIDs []string) bool {
	for _, id := range matchIDs {
		if _, ok := idx.byID[id]; !ok {
			return false
		}
	}
	return true
}
