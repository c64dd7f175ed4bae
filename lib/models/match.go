package models

import "time"

// Match is one row of the daily stored catalog. Each ingestion day writes fresh
// rows (new IDs, today's DateStored); completed matches are never stored.
type Match struct {
	ID           string `gorm:"primaryKey"`
	MatchID      string `gorm:"index"`
	DateStored   string `gorm:"index"` // yyyy-mm-dd, the ingestion day
	StartTimeGMT time.Time
	MatchType    string
	Status       string
	State        MatchState
	Team1        string
	Team2        string
}

type Matches []Match
