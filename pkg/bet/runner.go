package bet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/richard-senior/sofabet/internal/logger"
	"github.com/richard-senior/sofabet/pkg/podds"
	"github.com/richard-senior/sofabet/pkg/sofascore"
	"github.com/richard-senior/sofabet/pkg/util"
)

// DataProvider is everything the runner needs from the statistics API
type DataProvider interface {
	Championships(ctx context.Context) ([]sofascore.Championship, error)
	CurrentSeason(ctx context.Context, championship int) (sofascore.Season, error)
	Standings(ctx context.Context, championship, season int, venue podds.Venue) (podds.Standings, error)
	CurrentRound(ctx context.Context, championship, season int) (int, error)
	RoundFixtures(ctx context.Context, championship, season, round int) ([]podds.Fixture, error)
	FixtureOdds(ctx context.Context, fixtureID int) (podds.MatchOdds, error)
}

var _ DataProvider = (*sofascore.Client)(nil)

// Recorder stores analysed predictions, *podds.Ledger satisfies it
type Recorder interface {
	Record(p *podds.Prediction) error
}

// Runner analyses the current round of one championship
type Runner struct {
	Provider DataProvider
	Selector Selector  // asked when no championship is given
	Reporter *Reporter // nil discards the report
	Recorder Recorder  // optional
	Now      func() time.Time
}

// NewRunner wires a runner writing its report to w
func NewRunner(provider DataProvider, selector Selector, w io.Writer) *Runner {
	return &Runner{
		Provider: provider,
		Selector: selector,
		Reporter: NewReporter(w),
		Now:      time.Now,
	}
}

// Run analyses every unplayed fixture of the current round and returns the predictions for fixtures kicking off today
// championship may be an id, a name or empty, in which case the Selector decides
func (r *Runner) Run(ctx context.Context, championship string) ([]*podds.Prediction, error) {
	if r.Reporter == nil {
		r.Reporter = NewReporter(io.Discard)
	}
	if r.Now == nil {
		r.Now = time.Now
	}

	champID, err := r.chooseChampionship(ctx, championship)
	if err != nil {
		return nil, err
	}
	season, err := r.Provider.CurrentSeason(ctx, champID)
	if err != nil {
		return nil, err
	}
	logger.Info("Analysing championship", champID, "season", season.Name)

	logger.Info("Load home's data...")
	home, err := r.Provider.Standings(ctx, champID, season.ID, podds.VenueHome)
	if err != nil {
		return nil, err
	}
	logger.Info("Load away's data...")
	away, err := r.Provider.Standings(ctx, champID, season.ID, podds.VenueAway)
	if err != nil {
		return nil, err
	}
	logger.Info("Load informations about the current round")
	round, err := r.Provider.CurrentRound(ctx, champID, season.ID)
	if err != nil {
		return nil, err
	}
	fixtures, err := r.Provider.RoundFixtures(ctx, champID, season.ID, round)
	if err != nil {
		return nil, err
	}

	logger.Info("Calculating the average number of goals scored and conceded per home and away game")
	agg := podds.AggregateLeague(home, away)
	if agg.IsEmpty() {
		logger.Warn("No match played yet this season, every strength is neutral")
	}
	r.Reporter.League(agg)
	r.Reporter.Round(round)

	today := r.Now()
	loc := podds.GetLocation()
	var collected []*podds.Prediction

	for _, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !fx.IsNotStarted() {
			r.Reporter.Played(fx)
			continue
		}

		p, err := podds.PredictFixture(fx, agg, home, away)
		if errors.Is(err, podds.ErrMissingTeamData) {
			logger.Warn("Skipping fixture", fx.Title(), err)
			r.Reporter.Skipped(fx, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", fx.ID, err)
		}

		odds, err := r.Provider.FixtureOdds(ctx, fx.ID)
		if err != nil {
			return nil, err
		}
		p.Odds = odds
		r.Reporter.Prediction(p)

		if r.Recorder != nil {
			if err := r.Recorder.Record(p); err != nil {
				logger.Warn("Failed to record prediction", fx.ID, err)
			}
		}

		if fx.StartsOn(today, loc) {
			collected = append(collected, p)
		} else {
			logger.Debug("Not today, left out of the results", fx.Title())
		}
	}

	r.Reporter.Collected(collected)
	return collected, nil
}

// chooseChampionship turns the user's argument into a championship id
// Digits are taken as an id without consulting the list
func (r *Runner) chooseChampionship(ctx context.Context, arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg != "" && util.IsNumeric(arg) {
		return util.ConvertToInt(arg), nil
	}

	logger.Info("Load the list of championships...")
	champs, err := r.Provider.Championships(ctx)
	if err != nil {
		return 0, err
	}

	var chosen sofascore.Championship
	if arg != "" {
		chosen, err = ResolveChampionship(champs, arg)
	} else {
		if r.Selector == nil {
			return 0, fmt.Errorf("%w: no championship given and no way to ask", ErrInvalidSelection)
		}
		chosen, err = r.Selector.Select(ctx, champs)
	}
	if err != nil {
		return 0, err
	}
	logger.Highlight("Selected championship", chosen.Name, chosen.ID)
	return chosen.ID, nil
}
