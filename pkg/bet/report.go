package bet

import (
	"fmt"
	"io"
	"strings"

	"github.com/richard-senior/sofabet/pkg/podds"
)

const separator = "============================================================"

// Reporter writes the human readable analysis of a round
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func pct(p float64) string {
	return fmt.Sprintf("%.2f %%", p*100)
}

// League prints the four league averages
func (r *Reporter) League(agg podds.LeagueAggregate) {
	r.printf("Average number of goals scored at home in this league : %.3f\n", agg.AvgHomeGoalsScored())
	r.printf("Average number of goals conceded at home in this league : %.3f\n", agg.AvgHomeGoalsConceded())
	r.printf("Average number of goals scored away in this league : %.3f\n", agg.AvgAwayGoalsScored())
	r.printf("Average number of goals conceded away in this league : %.3f\n\n", agg.AvgAwayGoalsConceded())
}

func (r *Reporter) Round(round int) {
	r.printf("Round %d\n", round)
}

// Played prints a fixture the model does not run on
func (r *Reporter) Played(fx podds.Fixture) {
	r.printf("%s\n\n", separator)
	if fx.IsCompleted() {
		r.printf("%s => %s\n\n", fx.Title(), fx.ScoreString())
		return
	}
	r.printf("%s => %s (%s)\n\n", fx.Title(), fx.ScoreString(), fx.Status)
}

// Skipped prints a fixture that could not be analysed
func (r *Reporter) Skipped(fx podds.Fixture, err error) {
	r.printf("%s\n\n", separator)
	r.printf("%s => skipped (%v)\n\n", fx.Title(), err)
}

// Prediction prints the whole analysis of one fixture
func (r *Reporter) Prediction(p *podds.Prediction) {
	s := p.Strengths
	home, away := p.HomeTeamName, p.AwayTeamName

	r.printf("%s\n\n", separator)
	r.printf("%s - %s => Not yet played\n\n", home, away)

	r.printf("Average goals scored by %s at home : %.3f\n", home, s.Home.AvgGoalsScored())
	r.printf("Average goals conceded by %s at home : %.3f\n\n", home, s.Home.AvgGoalsConceded())
	r.printf("Average goals scored by %s away : %.3f\n", away, s.Away.AvgGoalsScored())
	r.printf("Average goals conceded by %s away : %.3f\n\n", away, s.Away.AvgGoalsConceded())

	r.printf("%s Attack Strength : %.3f\n", home, s.HomeAttack)
	r.printf("%s Attack Strength : %.3f\n\n", away, s.AwayAttack)
	r.printf("%s Defense Strength : %.3f\n", home, s.HomeDefense)
	r.printf("%s Defense Strength : %.3f\n\n", away, s.AwayDefense)

	r.printf("%s's goal expectancy : %.3f\n", home, p.LambdaHome)
	r.printf("%s's goal expectancy : %.3f\n\n", away, p.LambdaAway)

	d := p.Distribution
	for k := 0; k <= podds.MaxGoals; k++ {
		r.printf("Probability for %s to score %d goals : %s\n", home, k, pct(d.HomeGoals[k]))
		r.printf("Probability for %s to score %d goals : %s\n\n", away, k, pct(d.AwayGoals[k]))
	}
	r.printf("Most likely number of goals for %s : %d\n", home, d.HomeGoals.MostLikely())
	r.printf("Most likely number of goals for %s : %d\n\n", away, d.AwayGoals.MostLikely())

	fair, edges := p.FairOdds(), p.Edges()
	r.outcome(fmt.Sprintf("Probability for %s to win", home), d.HomeWin, fair.Home, p.Odds.Home, edges.Home)
	r.outcome("Probability of a draw", d.Draw, fair.Draw, p.Odds.Draw, edges.Draw)
	r.outcome(fmt.Sprintf("Probability for %s to win", away), d.AwayWin, fair.Away, p.Odds.Away, edges.Away)
	if margin, ok := p.Odds.Overround(); ok {
		r.printf("Bookmakers' margin : %s\n", pct(margin))
	}

	top := p.TopScores()
	r.printf("\nTop %d probable scores : \n", len(top))
	for i, sc := range top {
		r.printf("%d. \t %s \t Probability : %s\n", i+1, sc.Score, pct(sc.Probability))
	}

	r.printf("\nOver 1.5 goals : %s\n", pct(p.Over1p5Goals))
	r.printf("Over 2.5 goals : %s\n", pct(p.Over2p5Goals))
	r.printf("Both teams to score : %s\n\n", pct(p.BothTeamsScore))
}

func (r *Reporter) outcome(label string, p float64, fair, book, edge podds.Odds) {
	r.printf("=> %s : %s \t\t Odds : %s\n", label, pct(p), fair)
	edgeStr := "n/a"
	if edge.Available {
		edgeStr = fmt.Sprintf("%+.1f %%", edge.Value*100)
	}
	r.printf("Bookmakers' odds : %s \t Edge : %s\n", book, edgeStr)
}

// Collected prints a one line summary of the predictions returned to the caller
func (r *Reporter) Collected(preds []*podds.Prediction) {
	r.printf("%s\n\n", separator)
	if len(preds) == 0 {
		r.printf("No fixture to bet on today\n")
		return
	}
	titles := make([]string, 0, len(preds))
	for _, p := range preds {
		titles = append(titles, p.HomeTeamName+" - "+p.AwayTeamName)
	}
	r.printf("Today's fixtures : %s\n", strings.Join(titles, ", "))
}
