package podds

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// league with home averages 1.5 scored / 1.0 conceded and away averages 1.1 / 1.4
// team 1 averages 1.8 / 0.9 at home, team 2 averages 1.0 / 1.6 away
func exampleLeague() (Standings, Standings) {
	home := Standings{
		{TeamID: 1, TeamName: "Alpha", Venue: VenueHome, Matches: 10, GoalsScored: 18, GoalsConceded: 9},
		{TeamID: 3, TeamName: "Gamma", Venue: VenueHome, Matches: 10, GoalsScored: 12, GoalsConceded: 11},
	}
	away := Standings{
		{TeamID: 2, TeamName: "Beta", Venue: VenueAway, Matches: 10, GoalsScored: 10, GoalsConceded: 16},
		{TeamID: 4, TeamName: "Delta", Venue: VenueAway, Matches: 10, GoalsScored: 12, GoalsConceded: 12},
	}
	return home, away
}

func exampleFixture() Fixture {
	return Fixture{
		ID:           99,
		Tournament:   "Test League",
		HomeTeamID:   1,
		HomeTeamName: "Alpha",
		AwayTeamID:   2,
		AwayTeamName: "Beta",
		StartTime:    time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC),
		Status:       StatusNotStarted,
	}
}

func TestAggregateLeague(t *testing.T) {
	home, away := exampleLeague()
	agg := AggregateLeague(home, away)

	assert.Equal(t, 20, agg.HomeMatches)
	assert.Equal(t, 20, agg.AwayMatches)
	assert.InDelta(t, 1.5, agg.AvgHomeGoalsScored(), 1e-12)
	assert.InDelta(t, 1.0, agg.AvgHomeGoalsConceded(), 1e-12)
	assert.InDelta(t, 1.1, agg.AvgAwayGoalsScored(), 1e-12)
	assert.InDelta(t, 1.4, agg.AvgAwayGoalsConceded(), 1e-12)
	assert.False(t, agg.IsEmpty())
}

func TestAggregateLeagueWithNoMatches(t *testing.T) {
	agg := AggregateLeague(Standings{{TeamID: 1}}, nil)

	assert.True(t, agg.IsEmpty())
	for _, v := range []float64{
		agg.AvgHomeGoalsScored(), agg.AvgHomeGoalsConceded(),
		agg.AvgAwayGoalsScored(), agg.AvgAwayGoalsConceded(),
	} {
		assert.Equal(t, 0.0, v)
		assert.False(t, math.IsNaN(v))
	}
}

func TestRecordAveragesGuardZeroMatches(t *testing.T) {
	r := TeamSeasonRecord{GoalsScored: 3, GoalsConceded: 2}
	assert.Equal(t, 0.0, r.AvgGoalsScored())
	assert.Equal(t, 0.0, r.AvgGoalsConceded())

	r.Matches = 2
	assert.Equal(t, 1.5, r.AvgGoalsScored())
	assert.Equal(t, 1.0, r.AvgGoalsConceded())
}

func TestStrengthsForExampleLeague(t *testing.T) {
	home, away := exampleLeague()
	agg := AggregateLeague(home, away)

	s, err := CalculateStrengths(agg, home, away, exampleFixture())
	require.NoError(t, err)

	assert.InDelta(t, 1.2, s.HomeAttack, 1e-12)
	assert.InDelta(t, 0.9, s.HomeDefense, 1e-12)
	assert.InDelta(t, 1.0/1.1, s.AwayAttack, 1e-12)
	assert.InDelta(t, 1.6/1.4, s.AwayDefense, 1e-12)
	assert.Greater(t, s.HomeAttack, 1.0)
	assert.Less(t, s.AwayAttack, 1.0)

	lh, la := GoalExpectancy(s, agg)
	assert.InDelta(t, 1.2*(1.6/1.4)*1.5, lh, 1e-9)
	assert.InDelta(t, (1.0/1.1)*0.9*1.1, la, 1e-9)
	assert.Greater(t, lh, la)

	d := NewScoreDistribution(lh, la)
	assert.Greater(t, d.HomeWin, d.AwayWin)
}

func TestStrengthsUseNeutralValueForEmptyLeague(t *testing.T) {
	home := Standings{{TeamID: 1, Venue: VenueHome}}
	away := Standings{{TeamID: 2, Venue: VenueAway}}
	agg := AggregateLeague(home, away)

	s, err := CalculateStrengths(agg, home, away, exampleFixture())
	require.NoError(t, err)
	assert.Equal(t, Config.NeutralStrength, s.HomeAttack)
	assert.Equal(t, Config.NeutralStrength, s.HomeDefense)
	assert.Equal(t, Config.NeutralStrength, s.AwayAttack)
	assert.Equal(t, Config.NeutralStrength, s.AwayDefense)

	lh, la := GoalExpectancy(s, agg)
	assert.Equal(t, 0.0, lh)
	assert.Equal(t, 0.0, la)
}

func TestStrengthsMissingTeam(t *testing.T) {
	home, away := exampleLeague()
	agg := AggregateLeague(home, away)

	fx := exampleFixture()
	fx.HomeTeamID = 42
	fx.HomeTeamName = "Promoted"
	_, err := CalculateStrengths(agg, home, away, fx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingTeamData)

	var mt *MissingTeamError
	require.True(t, errors.As(err, &mt))
	assert.Equal(t, 42, mt.TeamID)
	assert.Equal(t, VenueHome, mt.Venue)
	assert.Contains(t, err.Error(), "Promoted")

	// the away side must come from the away split, not the home one
	fx = exampleFixture()
	fx.AwayTeamID = 3
	_, err = CalculateStrengths(agg, home, away, fx)
	require.True(t, errors.As(err, &mt))
	assert.Equal(t, VenueAway, mt.Venue)
}

func TestPoissonProbability(t *testing.T) {
	assert.InDelta(t, math.Exp(-1.5), PoissonProbability(0, 1.5), 1e-15)
	assert.InDelta(t, 1.5*1.5*1.5*math.Exp(-1.5)/6, PoissonProbability(3, 1.5), 1e-15)
	assert.Equal(t, 1.0, PoissonProbability(0, 0))
	assert.Equal(t, 0.0, PoissonProbability(4, 0))
}

func TestGoalVectorMassIsTruncated(t *testing.T) {
	for _, lambda := range []float64{0.3, 0.5, 1.2, 2.7, 6} {
		v := NewGoalVector(lambda)
		assert.Len(t, v, 6)
		assert.LessOrEqual(t, v.Sum(), 1.0)
		assert.Less(t, v.Sum(), 1.0, "lambda %f", lambda)
	}
	assert.InDelta(t, 1.0, NewGoalVector(0).Sum(), 1e-15)
}

func TestOutcomesPartitionTheGrid(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0}, {0.4, 2.2}, {1.2, 1.2}, {2.057, 0.9}, {4.5, 3.1}} {
		d := NewScoreDistribution(pair[0], pair[1])
		assert.Len(t, d.Scores, 36)
		assert.InDelta(t, d.Total(), d.HomeWin+d.Draw+d.AwayWin, 1e-9)
		assert.LessOrEqual(t, d.Total(), 1.0+1e-12)
	}
}

func TestGridIsNotRenormalised(t *testing.T) {
	d := NewScoreDistribution(3, 3)
	assert.InDelta(t, d.HomeGoals.Sum()*d.AwayGoals.Sum(), d.Total(), 1e-12)
	assert.Less(t, d.Total(), 0.9)
}

func TestSymmetricRates(t *testing.T) {
	d := NewScoreDistribution(1.2, 1.2)
	assert.InDelta(t, d.HomeWin, d.AwayWin, 1e-12)

	var draw float64
	for k := 0; k <= MaxGoals; k++ {
		p := PoissonProbability(k, 1.2)
		draw += p * p
	}
	assert.InDelta(t, draw, d.Draw, 1e-12)
	assert.InDelta(t, 0.2766, d.Draw, 1e-4)

	// low scoring symmetric fixtures are where the draw dominates
	low := NewScoreDistribution(0.5, 0.5)
	assert.Greater(t, low.Draw, low.HomeWin)
	assert.Greater(t, low.Draw, low.AwayWin)
}

func TestTopScoresOrdering(t *testing.T) {
	for _, pair := range [][2]float64{{1.2, 1.2}, {2.057, 0.9}, {0.3, 3.4}} {
		top := NewScoreDistribution(pair[0], pair[1]).TopScores(5)
		require.Len(t, top, 5)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Probability, top[i].Probability)
		}
	}

	// equal cells fall back to scoreline order
	top := NewScoreDistribution(1.2, 1.2).TopScores(3)
	assert.Equal(t, "1-1", top[0].Score)
	assert.Equal(t, "0-1", top[1].Score)
	assert.Equal(t, "1-0", top[2].Score)

	d := NewScoreDistribution(1, 1)
	assert.Len(t, d.TopScores(100), 36)
	assert.Empty(t, d.TopScores(-1))
}

func TestOverGoalsAndBothTeamsScore(t *testing.T) {
	d := NewScoreDistribution(1.4, 1.1)

	under := d.Scores["0-0"] + d.Scores["1-0"] + d.Scores["0-1"]
	assert.InDelta(t, d.Total()-under, d.OverGoals(1.5), 1e-12)

	var btts float64
	for i := 1; i <= MaxGoals; i++ {
		for j := 1; j <= MaxGoals; j++ {
			btts += d.Scores[ScoreKey(i, j)]
		}
	}
	assert.InDelta(t, btts, d.BothTeamsScore(), 1e-12)
	assert.Greater(t, d.OverGoals(1.5), d.OverGoals(2.5))
}

func TestGoalVectorMostLikely(t *testing.T) {
	assert.Equal(t, 0, NewGoalVector(0.5).MostLikely())
	assert.Equal(t, 2, NewGoalVector(2.5).MostLikely())
}

func TestFixtureStatus(t *testing.T) {
	fx := exampleFixture()
	assert.True(t, fx.IsNotStarted())
	assert.False(t, fx.IsCompleted())

	fx.Status = StatusFinished
	assert.True(t, fx.IsCompleted())
	assert.False(t, fx.IsNotStarted())

	two, one := 2, 1
	fx.HomeScore, fx.AwayScore = &two, &one
	assert.Equal(t, "2 - 1", fx.ScoreString())
	fx.AwayScore = nil
	assert.Equal(t, "2 - ?", fx.ScoreString())
	assert.Equal(t, "Alpha - Beta", fx.Title())
}

func TestFixtureStartsOn(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	fx := exampleFixture()
	fx.StartTime = time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC) // 00:30 on the 16th in Paris

	day := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.True(t, fx.StartsOn(day, time.UTC))
	assert.False(t, fx.StartsOn(day, paris))
	assert.True(t, fx.StartsOn(day.Add(24*time.Hour), paris))
}

func TestPredictFixture(t *testing.T) {
	home, away := exampleLeague()
	agg := AggregateLeague(home, away)

	p, err := PredictFixture(exampleFixture(), agg, home, away)
	require.NoError(t, err)

	assert.Equal(t, 99, p.MatchID)
	assert.Equal(t, "Test League", p.LeagueName)
	assert.Greater(t, p.LambdaHome, p.LambdaAway)
	assert.False(t, p.Odds.AnyAvailable())
	assert.Len(t, p.TopScores(), Config.TopScoreCount)
	assert.InDelta(t, p.Distribution.OverGoals(2.5), p.Over2p5Goals, 1e-12)

	fair := p.FairOdds()
	assert.InDelta(t, 1/p.Distribution.HomeWin, fair.Home.Value, 1e-12)
	assert.True(t, fair.Draw.Available)

	edges := p.Edges()
	assert.False(t, edges.Home.Available)

	p.Odds = MatchOddsFromFractional("1/2", "3/1", "6/1")
	edges = p.Edges()
	require.True(t, edges.Home.Available)
	assert.InDelta(t, p.Distribution.HomeWin*1.5-1, edges.Home.Value, 1e-12)
}

func TestPredictFixtureMissingTeam(t *testing.T) {
	home, away := exampleLeague()
	fx := exampleFixture()
	fx.AwayTeamID = 77

	_, err := PredictFixture(fx, AggregateLeague(home, away), home, away)
	assert.ErrorIs(t, err, ErrMissingTeamData)
}
