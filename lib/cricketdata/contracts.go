package cricketdata

import (
	"time"

	"wicketwatch/lib/models"
)

// CurrentMatch is one live-feed entry. Ephemeral: evaluated, never persisted.
type CurrentMatch struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MatchType    string    `json:"matchType"`
	Status       string    `json:"status"`
	Venue        string    `json:"venue"`
	DateTimeGMT  time.Time `json:"dateTimeGMT"`
	Teams        []string  `json:"teams"`
	Score        []Innings `json:"score"`
	SeriesID     string    `json:"series_id"`
	MatchStarted bool      `json:"matchStarted"`
	MatchEnded   bool      `json:"matchEnded"`
}

// Innings carries the feed's single-letter score fields. The inning label is
// free text that may equal or merely contain a team name.
type Innings struct {
	Runs    int     `json:"r"`
	Wickets int     `json:"w"`
	Overs   float64 `json:"o"`
	Inning  string  `json:"inning"`
}

// ScoreMatch is one entry of the full fixture list used by ingestion.
type ScoreMatch struct {
	ID          string            `json:"id"`
	DateTimeGMT time.Time         `json:"dateTimeGMT"`
	MatchType   string            `json:"matchType"`
	Status      string            `json:"status"`
	State       models.MatchState `json:"ms"`
	Team1       string            `json:"t1"`
	Team2       string            `json:"t2"`
}

type currentMatchesResponse struct {
	Data []CurrentMatch `json:"data"`
}

type scoreMatchesResponse struct {
	Data []ScoreMatch `json:"data"`
}
