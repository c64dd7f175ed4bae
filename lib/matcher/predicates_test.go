package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/models"
)

func TestSatisfies_ChangeOfInnings(t *testing.T) {
	sub := &models.Subscription{TeamInQuestion: "team1", Type: models.ChangeOfInnings}

	tests := []struct {
		name  string
		match *cricketdata.CurrentMatch
		want  bool
	}{
		{
			name:  "match absent from feed",
			match: nil,
			want:  false,
		},
		{
			name:  "match not started",
			match: &cricketdata.CurrentMatch{MatchStarted: false},
			want:  false,
		},
		{
			name: "match ended",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				MatchEnded:   true,
				Score:        []cricketdata.Innings{{Inning: "team1"}},
			},
			want: false,
		},
		{
			name:  "started with no innings yet",
			match: &cricketdata.CurrentMatch{MatchStarted: true},
			want:  false,
		},
		{
			name: "other team batting below all out",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "randomTeam", Wickets: 4}},
			},
			want: false,
		},
		{
			name: "current innings label contains team, case-insensitive",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "TEAM1 Inning 2"}},
			},
			want: true,
		},
		{
			name: "prior innings closed all out",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "randomTeam", Wickets: 10}},
			},
			want: true,
		},
		{
			name: "only last innings counts",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score: []cricketdata.Innings{
					{Inning: "team1", Wickets: 3},
					{Inning: "randomTeam", Wickets: 2},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, satisfies(sub, tt.match))
		})
	}
}

func TestSatisfies_WicketCount(t *testing.T) {
	sub := &models.Subscription{
		TeamInQuestion:  "team2",
		Type:            models.WicketCount,
		NumberOfWickets: intPtr(5),
	}

	tests := []struct {
		name  string
		match *cricketdata.CurrentMatch
		want  bool
	}{
		{
			name:  "match absent from feed",
			match: nil,
			want:  false,
		},
		{
			name: "below threshold",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "team2", Wickets: 4}},
			},
			want: false,
		},
		{
			name: "at threshold",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "team2", Wickets: 5}},
			},
			want: true,
		},
		{
			name: "above threshold",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "Team2 Inning 1", Wickets: 8}},
			},
			want: true,
		},
		{
			name: "other team past threshold does not fire",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score:        []cricketdata.Innings{{Inning: "randomTeam", Wickets: 9}},
			},
			want: false,
		},
		{
			name: "earlier innings past threshold does not fire",
			match: &cricketdata.CurrentMatch{
				MatchStarted: true,
				Score: []cricketdata.Innings{
					{Inning: "team2", Wickets: 7},
					{Inning: "randomTeam", Wickets: 1},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, satisfies(sub, tt.match))
		})
	}
}

func TestSatisfies_WicketCountWithoutThreshold(t *testing.T) {
	sub := &models.Subscription{TeamInQuestion: "team2", Type: models.WicketCount}
	match := &cricketdata.CurrentMatch{
		MatchStarted: true,
		Score:        []cricketdata.Innings{{Inning: "team2", Wickets: 9}},
	}
	assert.False(t, satisfies(sub, match))
}
