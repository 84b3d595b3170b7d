package podds

import (
	"github.com/richard-senior/sofabet/pkg/util"
)

// TeamStrengths are the attack and defence ratios for one fixture
// 1.0 is league average, higher attack and lower defence are better
type TeamStrengths struct {
	Home        TeamSeasonRecord `json:"home"` // home team, home split
	Away        TeamSeasonRecord `json:"away"` // away team, away split
	HomeAttack  float64          `json:"homeAttack"`
	HomeDefense float64          `json:"homeDefense"`
	AwayAttack  float64          `json:"awayAttack"`
	AwayDefense float64          `json:"awayDefense"`
}

// CalculateStrengths derives the strengths of the two sides of fx
// The home side is looked up in the home split and the away side in the away split
func CalculateStrengths(agg LeagueAggregate, home, away Standings, fx Fixture) (*TeamStrengths, error) {
	homeRec, ok := home.Lookup(fx.HomeTeamID)
	if !ok {
		return nil, &MissingTeamError{TeamID: fx.HomeTeamID, TeamName: fx.HomeTeamName, Venue: VenueHome}
	}
	awayRec, ok := away.Lookup(fx.AwayTeamID)
	if !ok {
		return nil, &MissingTeamError{TeamID: fx.AwayTeamID, TeamName: fx.AwayTeamName, Venue: VenueAway}
	}

	return &TeamStrengths{
		Home:        homeRec,
		Away:        awayRec,
		HomeAttack:  ratio(homeRec.AvgGoalsScored(), agg.AvgHomeGoalsScored()),
		HomeDefense: ratio(homeRec.AvgGoalsConceded(), agg.AvgHomeGoalsConceded()),
		AwayAttack:  ratio(awayRec.AvgGoalsScored(), agg.AvgAwayGoalsScored()),
		AwayDefense: ratio(awayRec.AvgGoalsConceded(), agg.AvgAwayGoalsConceded()),
	}, nil
}

// ratio of a team average to the league average, neutral when the league has nothing to compare with
func ratio(team, league float64) float64 {
	return util.SafeDivision(team, league, GetNeutralStrength())
}
