package sofascore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richard-senior/sofabet/internal/logger"
	"github.com/richard-senior/sofabet/pkg/podds"
	"github.com/richard-senior/sofabet/pkg/transport"
)

// ErrNoCurrentRound is returned for a season the provider has no round information for
var ErrNoCurrentRound = errors.New("no current round")

// Client reads the SofaScore JSON API
type Client struct {
	BaseURL   string
	transport transport.Transport
}

// NewClient uses t for every request
func NewClient(baseURL string, t transport.Transport) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		transport: t,
	}
}

// NewClientFromConfig builds the HTTP transport from cfg
func NewClientFromConfig(cfg *podds.PoddsConfig) (*Client, error) {
	t, err := transport.NewClient(transport.Options{
		ProxyURL:     cfg.ProxyURL,
		CABundlePath: cfg.CABundlePath,
		Timeout:      cfg.RequestTimeout,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return NewClient(cfg.BaseURL, t), nil
}

func (c *Client) seasonURL(championship, season int) string {
	return fmt.Sprintf("%s/unique-tournament/%d/season/%d", c.BaseURL, championship, season)
}

// Championships lists the provider's curated football tournaments
func (c *Client) Championships(ctx context.Context) ([]Championship, error) {
	var resp championshipsResponse
	if err := c.transport.GetJSON(ctx, c.BaseURL+"/config/unique-tournaments/EN/football", &resp); err != nil {
		return nil, fmt.Errorf("championships: %w", err)
	}
	out := make([]Championship, 0, len(resp.UniqueTournaments))
	for _, t := range resp.UniqueTournaments {
		out = append(out, Championship{ID: t.ID, Name: t.Name, Flag: t.Category.Flag})
	}
	return out, nil
}

// CurrentSeason returns the first listed season of a championship
func (c *Client) CurrentSeason(ctx context.Context, championship int) (Season, error) {
	var resp seasonsResponse
	url := fmt.Sprintf("%s/unique-tournament/%d/seasons", c.BaseURL, championship)
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		return Season{}, fmt.Errorf("seasons of championship %d: %w", championship, err)
	}
	if len(resp.Seasons) == 0 {
		return Season{}, fmt.Errorf("seasons of championship %d: empty season list", championship)
	}
	return resp.Seasons[0], nil
}

// Standings returns one split (home, away or total) of the season table
func (c *Client) Standings(ctx context.Context, championship, season int, venue podds.Venue) (podds.Standings, error) {
	var resp standingsResponse
	url := fmt.Sprintf("%s/standings/%s", c.seasonURL(championship, season), venue)
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("%s standings: %w", venue, err)
	}
	if len(resp.Standings) == 0 {
		return nil, fmt.Errorf("%s standings: empty standings list", venue)
	}
	return resp.toStandings(venue), nil
}

// CurrentRound returns the round number the season is on
func (c *Client) CurrentRound(ctx context.Context, championship, season int) (int, error) {
	var resp roundsResponse
	if err := c.transport.GetJSON(ctx, c.seasonURL(championship, season)+"/rounds", &resp); err != nil {
		return 0, fmt.Errorf("rounds: %w", err)
	}
	if resp.CurrentRound == nil {
		return 0, fmt.Errorf("rounds of season %d: %w", season, ErrNoCurrentRound)
	}
	return resp.CurrentRound.Round, nil
}

// RoundFixtures returns every event of a round
func (c *Client) RoundFixtures(ctx context.Context, championship, season, round int) ([]podds.Fixture, error) {
	var resp eventsResponse
	url := fmt.Sprintf("%s/events/round/%d", c.seasonURL(championship, season), round)
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("round %d fixtures: %w", round, err)
	}
	return resp.toFixtures(), nil
}

// FixtureOdds returns the bookmaker 1X2 prices of an event
// A 404 means no market is published yet and yields unavailable odds rather than an error
func (c *Client) FixtureOdds(ctx context.Context, fixtureID int) (podds.MatchOdds, error) {
	var resp oddsResponse
	url := fmt.Sprintf("%s/event/%d/odds/1/all", c.BaseURL, fixtureID)
	if err := c.transport.GetJSON(ctx, url, &resp); err != nil {
		if transport.IsNotFound(err) {
			logger.Warn("No odds published for fixture", fixtureID)
			return podds.UnavailableMatchOdds(), nil
		}
		return podds.MatchOdds{}, fmt.Errorf("odds of fixture %d: %w", fixtureID, err)
	}
	odds, ok := resp.toMatchOdds()
	if !ok {
		logger.Warn("No usable odds for fixture", fixtureID)
	}
	return odds, nil
}
