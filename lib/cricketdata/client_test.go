package cricketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.CricketData.BaseURL = server.URL
	cfg.CricketData.APIKey = "test-key"
	return NewClient(nil, zap.NewNop(), cfg, http.DefaultTransport)
}

func TestCurrentMatches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currentMatches", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "25", r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{
				"id": "match1",
				"name": "England vs Australia",
				"matchType": "odi",
				"status": "Live",
				"dateTimeGMT": "2024-06-15T10:00:00Z",
				"teams": ["England", "Australia"],
				"score": [
					{"r": 241, "w": 10, "o": 48.3, "inning": "England Inning 1"},
					{"r": 103, "w": 4, "o": 21, "inning": "Australia Inning 1"}
				],
				"matchStarted": true,
				"matchEnded": false
			}],
			"status": "success"
		}`))
	})

	matches, err := client.CurrentMatches(context.Background(), PageSize)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	match := matches[0]
	assert.Equal(t, "match1", match.ID)
	assert.True(t, match.MatchStarted)
	assert.False(t, match.MatchEnded)
	require.Len(t, match.Score, 2)
	assert.Equal(t, Innings{Runs: 241, Wickets: 10, Overs: 48.3, Inning: "England Inning 1"}, match.Score[0])
	assert.Equal(t, 4, match.Score[1].Wickets)
}

func TestListMatches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cricScore", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"id": "m1", "dateTimeGMT": "2024-06-16T14:00:00Z", "matchType": "t20", "status": "Match starts at 14:00 GMT", "ms": "fixture", "t1": "India [A]", "t2": "Sri Lanka"},
				{"id": "m2", "dateTimeGMT": "2024-06-14T09:00:00Z", "matchType": "test", "status": "England won by 5 wickets", "ms": "result", "t1": "England", "t2": "West Indies"}
			],
			"status": "success"
		}`))
	})

	matches, err := client.ListMatches(context.Background())

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, ScoreMatch{
		ID:          "m1",
		DateTimeGMT: time.Date(2024, 6, 16, 14, 0, 0, 0, time.UTC),
		MatchType:   "t20",
		Status:      "Match starts at 14:00 GMT",
		State:       models.StateFixture,
		Team1:       "India [A]",
		Team2:       "Sri Lanka",
	}, matches[0])
	assert.Equal(t, models.StateResult, matches[1].State)
}

func TestCurrentMatches_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.CurrentMatches(context.Background(), 0)
	assert.Error(t, err)
}
