package podds

import (
	"time"
)

// Prediction is the full model output for one fixture
type Prediction struct {
	MatchID      int                `json:"matchId"`
	LeagueName   string             `json:"leagueName"`
	HomeTeamName string             `json:"homeTeamName"`
	AwayTeamName string             `json:"awayTeamName"`
	GameStart    time.Time          `json:"gameStart"`
	League       LeagueAggregate    `json:"league"`
	Strengths    *TeamStrengths     `json:"strengths"`
	LambdaHome   float64            `json:"lambdaHome"`
	LambdaAway   float64            `json:"lambdaAway"`
	Distribution *ScoreDistribution `json:"distribution"`
	Odds         MatchOdds          `json:"odds"`

	// derived from Distribution using the configured thresholds
	Over1p5Goals   float64 `json:"over1p5Goals"`
	Over2p5Goals   float64 `json:"over2p5Goals"`
	BothTeamsScore float64 `json:"bothTeamsScore"`
}

// PredictFixture runs the model for fx
// Bookmaker odds start unavailable, the caller attaches them once fetched
func PredictFixture(fx Fixture, agg LeagueAggregate, home, away Standings) (*Prediction, error) {
	strengths, err := CalculateStrengths(agg, home, away, fx)
	if err != nil {
		return nil, err
	}
	return DoPredictFixture(fx, agg, strengths), nil
}

// DoPredictFixture runs the model once strengths are known
func DoPredictFixture(fx Fixture, agg LeagueAggregate, strengths *TeamStrengths) *Prediction {
	lh, la := GoalExpectancy(strengths, agg)
	dist := NewScoreDistribution(lh, la)
	return &Prediction{
		MatchID:        fx.ID,
		LeagueName:     fx.Tournament,
		HomeTeamName:   fx.HomeTeamName,
		AwayTeamName:   fx.AwayTeamName,
		GameStart:      fx.StartTime,
		League:         agg,
		Strengths:      strengths,
		LambdaHome:     lh,
		LambdaAway:     la,
		Distribution:   dist,
		Odds:           UnavailableMatchOdds(),
		Over1p5Goals:   dist.OverGoals(Config.Over1p5GoalsThreshold),
		Over2p5Goals:   dist.OverGoals(Config.Over2p5GoalsThreshold),
		BothTeamsScore: dist.BothTeamsScore(),
	}
}

// FairOdds are the model's margin free prices
func (p *Prediction) FairOdds() MatchOdds {
	return MatchOdds{
		Home: FairOdds(p.Distribution.HomeWin),
		Draw: FairOdds(p.Distribution.Draw),
		Away: FairOdds(p.Distribution.AwayWin),
	}
}

// Edges compares the model with the attached bookmaker odds
func (p *Prediction) Edges() MatchOdds {
	return MatchOdds{
		Home: Edge(p.Distribution.HomeWin, p.Odds.Home),
		Draw: Edge(p.Distribution.Draw, p.Odds.Draw),
		Away: Edge(p.Distribution.AwayWin, p.Odds.Away),
	}
}

// TopScores returns the configured number of most likely scorelines
func (p *Prediction) TopScores() []ScoreProbability {
	return p.Distribution.TopScores(Config.TopScoreCount)
}
