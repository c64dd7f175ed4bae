package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertMatches(ctx context.Context, matches models.Matches) error {
	args := m.Called(ctx, matches)
	return args.Error(0)
}

func (m *mockStore) CountMatchesStoredOn(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) DeleteMatchesOlderThan(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) ListMatches(ctx context.Context) ([]cricketdata.ScoreMatch, error) {
	args := m.Called(ctx)
	matches, _ := args.Get(0).([]cricketdata.ScoreMatch)
	return matches, args.Error(1)
}

func newTestTask(t *testing.T) (*Task, *mockStore, *mockFeed) {
	t.Helper()
	store := &mockStore{}
	feed := &mockFeed{}
	task := NewTask(nil, zap.NewNop(), store, feed)
	task.now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return task, store, feed
}

const today = "2024-06-15"

func TestRunCycle_StoresUpcomingMatchesOnly(t *testing.T) {
	task, store, feed := newTestTask(t)

	start := time.Date(2024, 6, 16, 14, 0, 0, 0, time.UTC)
	feed.On("ListMatches", mock.Anything).Return([]cricketdata.ScoreMatch{
		{ID: "m1", State: models.StateResult, Team1: "England", Team2: "Australia"},
		{ID: "m2", State: models.StateFixture, MatchType: "odi", Status: "Match starts tomorrow", DateTimeGMT: start, Team1: "India [A]", Team2: "Sri Lanka"},
		{ID: "m3", State: models.StateLive, Team1: "Pakistan", Team2: "New Zealand [NZ] "},
	}, nil)

	var inserted models.Matches
	store.On("InsertMatches", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.Matches) }).
		Return(nil)
	store.On("CountMatchesStoredOn", mock.Anything, today).Return(int64(2), nil)
	store.On("DeleteMatchesOlderThan", mock.Anything, today).Return(nil)

	require.NoError(t, task.RunCycle(context.Background()))

	require.Len(t, inserted, 2)
	assert.Equal(t, "m2", inserted[0].MatchID)
	assert.Equal(t, "India", inserted[0].Team1)
	assert.Equal(t, "Sri Lanka", inserted[0].Team2)
	assert.Equal(t, today, inserted[0].DateStored)
	assert.Equal(t, start, inserted[0].StartTimeGMT)
	assert.Equal(t, "odi", inserted[0].MatchType)
	assert.Equal(t, models.StateFixture, inserted[0].State)
	assert.NotEmpty(t, inserted[0].ID)

	assert.Equal(t, "New Zealand", inserted[1].Team2)
	assert.NotEqual(t, inserted[0].ID, inserted[1].ID)
}

func TestRunCycle_PrunesOlderDaysOnceTodayIsStored(t *testing.T) {
	task, store, feed := newTestTask(t)

	feed.On("ListMatches", mock.Anything).Return([]cricketdata.ScoreMatch{
		{ID: "m1", State: models.StateFixture},
	}, nil)
	store.On("InsertMatches", mock.Anything, mock.Anything).Return(nil)
	store.On("CountMatchesStoredOn", mock.Anything, today).Return(int64(1), nil)
	store.On("DeleteMatchesOlderThan", mock.Anything, today).Return(nil)

	require.NoError(t, task.RunCycle(context.Background()))

	store.AssertCalled(t, "DeleteMatchesOlderThan", mock.Anything, today)
}

func TestRunCycle_SkipsPruneWhenTodayHasNoRecords(t *testing.T) {
	task, store, feed := newTestTask(t)

	// Every upstream match already completed: nothing stored for today, so
	// yesterday's catalog must survive.
	feed.On("ListMatches", mock.Anything).Return([]cricketdata.ScoreMatch{
		{ID: "m1", State: models.StateResult},
	}, nil)
	store.On("CountMatchesStoredOn", mock.Anything, today).Return(int64(0), nil)

	require.NoError(t, task.RunCycle(context.Background()))

	store.AssertNotCalled(t, "InsertMatches", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteMatchesOlderThan", mock.Anything, mock.Anything)
}

func TestRunCycle_FeedErrorLeavesStoreUntouched(t *testing.T) {
	task, store, feed := newTestTask(t)

	feed.On("ListMatches", mock.Anything).Return(nil, errors.New("upstream down"))

	require.Error(t, task.RunCycle(context.Background()))

	store.AssertNotCalled(t, "InsertMatches", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteMatchesOlderThan", mock.Anything, mock.Anything)
}

func TestHasRecordsFor(t *testing.T) {
	task, store, _ := newTestTask(t)

	store.On("CountMatchesStoredOn", mock.Anything, today).Return(int64(3), nil)

	ok, err := task.HasRecordsFor(context.Background(), task.Today())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStripQualifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"India [A]", "India"},
		{"England", "England"},
		{"New Zealand [NZ] ", "New Zealand"},
		{"Hobart Hurricanes [HBH]", "Hobart Hurricanes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripQualifier(tt.in))
	}
}
