package podds

import (
	"github.com/richard-senior/sofabet/pkg/util"
)

// LeagueAggregate holds league wide totals for the home and away splits
type LeagueAggregate struct {
	HomeMatches       int `json:"homeMatches"`
	HomeGoalsScored   int `json:"homeGoalsScored"`
	HomeGoalsConceded int `json:"homeGoalsConceded"`
	AwayMatches       int `json:"awayMatches"`
	AwayGoalsScored   int `json:"awayGoalsScored"`
	AwayGoalsConceded int `json:"awayGoalsConceded"`
}

// AggregateLeague sums matches and goals within each split
func AggregateLeague(home, away Standings) LeagueAggregate {
	var agg LeagueAggregate
	for _, r := range home {
		agg.HomeMatches += r.Matches
		agg.HomeGoalsScored += r.GoalsScored
		agg.HomeGoalsConceded += r.GoalsConceded
	}
	for _, r := range away {
		agg.AwayMatches += r.Matches
		agg.AwayGoalsScored += r.GoalsScored
		agg.AwayGoalsConceded += r.GoalsConceded
	}
	return agg
}

// The four league averages below are 0 for a split with no matches

func (a LeagueAggregate) AvgHomeGoalsScored() float64 {
	return util.SafeDivision(float64(a.HomeGoalsScored), float64(a.HomeMatches), 0)
}

func (a LeagueAggregate) AvgHomeGoalsConceded() float64 {
	return util.SafeDivision(float64(a.HomeGoalsConceded), float64(a.HomeMatches), 0)
}

func (a LeagueAggregate) AvgAwayGoalsScored() float64 {
	return util.SafeDivision(float64(a.AwayGoalsScored), float64(a.AwayMatches), 0)
}

func (a LeagueAggregate) AvgAwayGoalsConceded() float64 {
	return util.SafeDivision(float64(a.AwayGoalsConceded), float64(a.AwayMatches), 0)
}

// IsEmpty is true before any match of the season has been played
func (a LeagueAggregate) IsEmpty() bool {
	return a.HomeMatches == 0 && a.AwayMatches == 0
}
