package sofascore

import (
	"time"

	"github.com/richard-senior/sofabet/pkg/podds"
)

// Championship is an entry of the curated tournament list
type Championship struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Season of a championship, the provider lists the current one first
type Season struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Year string `json:"year"`
}

/////////////////////////////////////////////////////////////////////////
////// Wire shapes
/////////////////////////////////////////////////////////////////////////

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type championshipsResponse struct {
	UniqueTournaments []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Category struct {
			Flag string `json:"flag"`
		} `json:"category"`
	} `json:"uniqueTournaments"`
}

type seasonsResponse struct {
	Seasons []Season `json:"seasons"`
}

type standingsResponse struct {
	Standings []struct {
		Rows []struct {
			Team          teamRef `json:"team"`
			Matches       int     `json:"matches"`
			ScoresFor     int     `json:"scoresFor"`
			ScoresAgainst int     `json:"scoresAgainst"`
		} `json:"rows"`
	} `json:"standings"`
}

type roundsResponse struct {
	CurrentRound *struct {
		Round int `json:"round"`
	} `json:"currentRound"`
}

type score struct {
	Current *int `json:"current"`
}

type eventsResponse struct {
	Events []struct {
		ID         int `json:"id"`
		Tournament struct {
			Name string `json:"name"`
		} `json:"tournament"`
		HomeTeam       teamRef `json:"homeTeam"`
		AwayTeam       teamRef `json:"awayTeam"`
		StartTimestamp int64   `json:"startTimestamp"`
		Status         struct {
			Type string `json:"type"`
		} `json:"status"`
		HomeScore score `json:"homeScore"`
		AwayScore score `json:"awayScore"`
	} `json:"events"`
}

type oddsResponse struct {
	Markets []struct {
		MarketName string `json:"marketName"`
		Choices    []struct {
			Name            string `json:"name"`
			FractionalValue string `json:"fractionalValue"`
		} `json:"choices"`
	} `json:"markets"`
}

/////////////////////////////////////////////////////////////////////////
////// Conversion to model types
/////////////////////////////////////////////////////////////////////////

func (r *standingsResponse) toStandings(venue podds.Venue) podds.Standings {
	rows := r.Standings[0].Rows
	out := make(podds.Standings, 0, len(rows))
	for _, row := range rows {
		out = append(out, podds.TeamSeasonRecord{
			TeamID:        row.Team.ID,
			TeamName:      row.Team.Name,
			Venue:         venue,
			Matches:       row.Matches,
			GoalsScored:   row.ScoresFor,
			GoalsConceded: row.ScoresAgainst,
		})
	}
	return out
}

func (r *eventsResponse) toFixtures() []podds.Fixture {
	out := make([]podds.Fixture, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, podds.Fixture{
			ID:           e.ID,
			Tournament:   e.Tournament.Name,
			HomeTeamID:   e.HomeTeam.ID,
			HomeTeamName: e.HomeTeam.Name,
			AwayTeamID:   e.AwayTeam.ID,
			AwayTeamName: e.AwayTeam.Name,
			StartTime:    time.Unix(e.StartTimestamp, 0).UTC(),
			Status:       podds.FixtureStatus(e.Status.Type),
			HomeScore:    e.HomeScore.Current,
			AwayScore:    e.AwayScore.Current,
		})
	}
	return out
}

// toMatchOdds reads the first market's three choices in 1, X, 2 order
func (r *oddsResponse) toMatchOdds() (podds.MatchOdds, bool) {
	if len(r.Markets) == 0 {
		return podds.UnavailableMatchOdds(), false
	}
	choices := r.Markets[0].Choices
	price := func(i int) podds.Odds {
		if i >= len(choices) {
			return podds.Unavailable()
		}
		return podds.FractionalToDecimal(choices[i].FractionalValue)
	}
	m := podds.MatchOdds{Home: price(0), Draw: price(1), Away: price(2)}
	return m, m.AnyAvailable()
}
