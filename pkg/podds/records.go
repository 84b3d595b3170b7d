package podds

import (
	"github.com/richard-senior/sofabet/pkg/util"
)

// Venue identifies which standings split a record comes from
type Venue string

const (
	VenueHome  Venue = "home"
	VenueAway  Venue = "away"
	VenueTotal Venue = "total"
)

// TeamSeasonRecord is one team's row in one standings split
type TeamSeasonRecord struct {
	TeamID        int    `json:"teamId"`
	TeamName      string `json:"teamName"`
	Venue         Venue  `json:"venue"`
	Matches       int    `json:"matches"`
	GoalsScored   int    `json:"goalsScored"`
	GoalsConceded int    `json:"goalsConceded"`
}

// AvgGoalsScored is goals scored per match, 0 before the first match
func (r TeamSeasonRecord) AvgGoalsScored() float64 {
	return util.SafeDivision(float64(r.GoalsScored), float64(r.Matches), 0)
}

// AvgGoalsConceded is goals conceded per match, 0 before the first match
func (r TeamSeasonRecord) AvgGoalsConceded() float64 {
	return util.SafeDivision(float64(r.GoalsConceded), float64(r.Matches), 0)
}

// Standings is a full standings split, one record per team
type Standings []TeamSeasonRecord

// Lookup finds a team's record by id
func (s Standings) Lookup(teamID int) (TeamSeasonRecord, bool) {
	for _, r := range s {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return TeamSeasonRecord{}, false
}
