package ingest

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/models"
)

const dateLayout = "2006-01-02"

// Trailing bracketed qualifiers on team names, e.g. "India [A]".
var bracketSuffix = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)

type MatchStore interface {
	InsertMatches(ctx context.Context, matches models.Matches) error
	CountMatchesStoredOn(ctx context.Context, date string) (int64, error)
	DeleteMatchesOlderThan(ctx context.Context, date string) error
}

type MatchListFeed interface {
	ListMatches(ctx context.Context) ([]cricketdata.ScoreMatch, error)
}

// Task writes the daily snapshot of upcoming and live matches. Idempotent per
// calendar day in the sense that reruns only add rows for today and pruning
// never outruns a successful ingestion.
type Task struct {
	log   *zap.Logger
	store MatchStore
	feed  MatchListFeed

	now func() time.Time
}

func NewTask(lc fx.Lifecycle, log *zap.Logger, store MatchStore, feed MatchListFeed) *Task {
	return &Task{log, store, feed, func() time.Time { return time.Now().UTC() }}
}

// RunCycle fetches the fixture list, stores today's snapshot and prunes older
// days. Completed matches are dropped before storing; pruning only happens
// once at least one row exists for today, so a failed upstream call can never
// leave the catalog empty.
func (t *Task) RunCycle(ctx context.Context) error {
	today := t.now().Format(dateLayout)

	list, err := t.feed.ListMatches(ctx)
	if err != nil {
		return err
	}

	records := buildRecords(list, today)
	if len(records) > 0 {
		if err := t.store.InsertMatches(ctx, records); err != nil {
			return err
		}
		t.log.Sugar().Infof("Stored %d matches for %s", len(records), today)
	}

	return t.prune(ctx, today)
}

// HasRecordsFor reports whether today's ingestion already ran; the scheduler
// uses this to decide on a startup catch-up cycle.
func (t *Task) HasRecordsFor(ctx context.Context, day time.Time) (bool, error) {
	count, err := t.store.CountMatchesStoredOn(ctx, day.Format(dateLayout))
	return count > 0, err
}

func (t *Task) Today() time.Time {
	return t.now()
}

func (t *Task) prune(ctx context.Context, today string) error {
	count, err := t.store.CountMatchesStoredOn(ctx, today)
	if err != nil {
		return err
	}
	if count == 0 {
		// Today's snapshot is not confirmed; keep yesterday's data.
		return nil
	}
	return t.store.DeleteMatchesOlderThan(ctx, today)
}

func buildRecords(list []cricketdata.ScoreMatch, today string) models.Matches {
	var records models.Matches
	for _, m := range list {
		if m.State == models.StateResult {
			continue
		}
		records = append(records, models.Match{
			ID:           uuid.NewString(),
			MatchID:      m.ID,
			DateStored:   today,
			StartTimeGMT: m.DateTimeGMT,
			MatchType:    m.MatchType,
			Status:       m.Status,
			State:        m.State,
			Team1:        stripQualifier(m.Team1),
			Team2:        stripQualifier(m.Team2),
		})
	}
	return records
}

func stripQualifier(team string) string {
	return strings.TrimSpace(bracketSuffix.ReplaceAllString(team, ""))
}
