package matcher

import (
	"strings"

	"wicketwatch/lib/cricketdata"
	"wicketwatch/lib/models"
)

// allOut is the wicket count that closes an innings.
const allOut = 10

type predicate func(*models.Subscription, *cricketdata.Innings) bool

var predicates = map[models.NotificationType]predicate{
	models.ChangeOfInnings: changeOfInningsSatisfied,
	models.WicketCount:     wicketCountSatisfied,
}

func satisfies(sub *models.Subscription, match *cricketdata.CurrentMatch) bool {
	innings := currentInnings(match)
	if innings == nil {
		return false
	}
	p, ok := predicates[sub.Type]
	if !ok {
		return false
	}
	return p(sub, innings)
}

// currentInnings returns the innings in progress: the last entry of the score
// sequence, feed ordering defining recency. Nil when the match is absent, has
// not started, has ended, or carries no innings yet.
func currentInnings(match *cricketdata.CurrentMatch) *cricketdata.Innings {
	if match == nil || match.MatchEnded || !match.MatchStarted {
		return nil
	}
	if len(match.Score) == 0 {
		return nil
	}
	return &match.Score[len(match.Score)-1]
}

// changeOfInningsSatisfied fires once the watched team's innings is visibly
// underway, or the innings in progress closed on all out (the next one is
// theirs either way).
func changeOfInningsSatisfied(sub *models.Subscription, innings *cricketdata.Innings) bool {
	if inningsBelongsTo(innings, sub.TeamInQuestion) {
		return true
	}
	return innings.Wickets == allOut
}

// wicketCountSatisfied is team-scoped: the other side reaching the threshold
// does not fire it.
func wicketCountSatisfied(sub *models.Subscription, innings *cricketdata.Innings) bool {
	if !inningsBelongsTo(innings, sub.TeamInQuestion) {
		return false
	}
	if sub.NumberOfWickets == nil {
		return false
	}
	return innings.Wickets >= *sub.NumberOfWickets
}

// inningsBelongsTo does a case-insensitive substring check against the feed's
// free-text inning label; that label is the only reliable team signal upstream.
func inningsBelongsTo(innings *cricketdata.Innings, team string) bool {
	return strings.Contains(strings.ToLower(innings.Inning), strings.ToLower(team))
}
