package podds

import (
	"errors"
	"fmt"
)

// ErrMissingTeamData is returned when a fixture's team has no row in the relevant standings split
// Typically a promoted side that has not yet played at that venue
var ErrMissingTeamData = errors.New("missing team data")

// MissingTeamError names the team that could not be found
type MissingTeamError struct {
	TeamID   int
	TeamName string
	Venue    Venue
}

func (e *MissingTeamError) Error() string {
	return fmt.Sprintf("%s: no %s standings row for %s (id %d)", ErrMissingTeamData, e.Venue, e.TeamName, e.TeamID)
}

func (e *MissingTeamError) Unwrap() error {
	return ErrMissingTeamData
}
