package podds

import (
	"fmt"
	"math"
	"sort"
)

// MaxGoals is the highest goal count modelled per side
// The grid is truncated here and never renormalised, mass beyond it is discarded
const MaxGoals = 5

// GoalVector holds P(k goals) for k = 0..MaxGoals
type GoalVector [MaxGoals + 1]float64

// Sum is the probability mass captured by the vector, always <= 1
func (v GoalVector) Sum() float64 {
	var s float64
	for _, p := range v {
		s += p
	}
	return s
}

// MostLikely returns the goal count with the highest probability
func (v GoalVector) MostLikely() int {
	best := 0
	for k := 1; k < len(v); k++ {
		if v[k] > v[best] {
			best = k
		}
	}
	return best
}

// ScoreProbability is one cell of the scoreline grid
type ScoreProbability struct {
	Score       string  `json:"score"`
	HomeGoals   int     `json:"homeGoals"`
	AwayGoals   int     `json:"awayGoals"`
	Probability float64 `json:"probability"`
}

// ScoreDistribution is the truncated joint distribution of a fixture's scoreline
type ScoreDistribution struct {
	HomeGoals GoalVector         `json:"homeGoals"`
	AwayGoals GoalVector         `json:"awayGoals"`
	Scores    map[string]float64 `json:"scores"`
	HomeWin   float64            `json:"homeWin"`
	Draw      float64            `json:"draw"`
	AwayWin   float64            `json:"awayWin"`
}

// GoalExpectancy returns the Poisson rates of the home and away sides
func GoalExpectancy(s *TeamStrengths, agg LeagueAggregate) (home, away float64) {
	home = s.HomeAttack * s.AwayDefense * agg.AvgHomeGoalsScored()
	away = s.AwayAttack * s.HomeDefense * agg.AvgAwayGoalsScored()
	return home, away
}

// PoissonProbability is λ^k e^-λ / k!
func PoissonProbability(k int, lambda float64) float64 {
	return math.Pow(lambda, float64(k)) * math.Exp(-lambda) / factorial(k)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// NewGoalVector evaluates the Poisson mass function at 0..MaxGoals
func NewGoalVector(lambda float64) GoalVector {
	var v GoalVector
	for k := range v {
		v[k] = PoissonProbability(k, lambda)
	}
	return v
}

// ScoreKey formats a scoreline as "home-away"
func ScoreKey(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}

// NewScoreDistribution builds the 6x6 grid for two independent Poisson rates
// and reduces it to home win, draw and away win
func NewScoreDistribution(lambdaHome, lambdaAway float64) *ScoreDistribution {
	d := &ScoreDistribution{
		HomeGoals: NewGoalVector(lambdaHome),
		AwayGoals: NewGoalVector(lambdaAway),
		Scores:    make(map[string]float64, (MaxGoals+1)*(MaxGoals+1)),
	}
	for i, ph := range d.HomeGoals {
		for j, pa := range d.AwayGoals {
			p := ph * pa
			d.Scores[ScoreKey(i, j)] = p
			switch {
			case i > j:
				d.HomeWin += p
			case i == j:
				d.Draw += p
			default:
				d.AwayWin += p
			}
		}
	}
	return d
}

// cells walks the grid in row order
func (d *ScoreDistribution) cells() []ScoreProbability {
	out := make([]ScoreProbability, 0, len(d.HomeGoals)*len(d.AwayGoals))
	for i := range d.HomeGoals {
		for j := range d.AwayGoals {
			key := ScoreKey(i, j)
			out = append(out, ScoreProbability{Score: key, HomeGoals: i, AwayGoals: j, Probability: d.Scores[key]})
		}
	}
	return out
}

// Total is the mass of the whole grid, equal to HomeWin + Draw + AwayWin
func (d *ScoreDistribution) Total() float64 {
	var t float64
	for _, c := range d.cells() {
		t += c.Probability
	}
	return t
}

// TopScores returns the n most likely scorelines, most likely first
// Equal probabilities are ordered by scoreline
func (d *ScoreDistribution) TopScores(n int) []ScoreProbability {
	cells := d.cells()
	sort.SliceStable(cells, func(a, b int) bool {
		if cells[a].Probability != cells[b].Probability {
			return cells[a].Probability > cells[b].Probability
		}
		return cells[a].Score < cells[b].Score
	})
	if n < 0 {
		n = 0
	}
	if n > len(cells) {
		n = len(cells)
	}
	return cells[:n]
}

// OverGoals is the probability of more than threshold total goals within the grid
func (d *ScoreDistribution) OverGoals(threshold float64) float64 {
	var p float64
	for _, c := range d.cells() {
		if float64(c.HomeGoals+c.AwayGoals) > threshold {
			p += c.Probability
		}
	}
	return p
}

// BothTeamsScore is the probability that neither side keeps a clean sheet
func (d *ScoreDistribution) BothTeamsScore() float64 {
	var p float64
	for _, c := range d.cells() {
		if c.HomeGoals > 0 && c.AwayGoals > 0 {
			p += c.Probability
		}
	}
	return p
}

// MostLikelyScore is the single most probable scoreline
func (d *ScoreDistribution) MostLikelyScore() ScoreProbability {
	return d.TopScores(1)[0]
}
