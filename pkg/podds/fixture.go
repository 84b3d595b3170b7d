package podds

import (
	"fmt"
	"time"
)

// FixtureStatus is SofaScore's status.type
type FixtureStatus string

const (
	StatusNotStarted FixtureStatus = "notstarted"
	StatusInProgress FixtureStatus = "inprogress"
	StatusFinished   FixtureStatus = "finished"
	StatusPostponed  FixtureStatus = "postponed"
	StatusCanceled   FixtureStatus = "canceled"
)

// Fixture is one event of a round
type Fixture struct {
	ID           int           `json:"id"`
	Tournament   string        `json:"tournament"`
	HomeTeamID   int           `json:"homeTeamId"`
	HomeTeamName string        `json:"homeTeamName"`
	AwayTeamID   int           `json:"awayTeamId"`
	AwayTeamName string        `json:"awayTeamName"`
	StartTime    time.Time     `json:"startTime"`
	Status       FixtureStatus `json:"status"`
	HomeScore    *int          `json:"homeScore,omitempty"`
	AwayScore    *int          `json:"awayScore,omitempty"`
}

/////////////////////////////////////////////////////////////////////////
////// Status Query Methods
/////////////////////////////////////////////////////////////////////////

// IsNotStarted is true for fixtures the model should run on
func (f Fixture) IsNotStarted() bool {
	return f.Status == StatusNotStarted
}

// IsCompleted is true once the final whistle has gone
func (f Fixture) IsCompleted() bool {
	return f.Status == StatusFinished
}

// StartsOn reports whether the kick off falls on the calendar day of day, both seen from loc
func (f Fixture) StartsOn(day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	y1, m1, d1 := f.StartTime.In(loc).Date()
	y2, m2, d2 := day.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ScoreString is "h - a", with "?" for a side the provider has not reported
func (f Fixture) ScoreString() string {
	return fmt.Sprintf("%s - %s", scorePart(f.HomeScore), scorePart(f.AwayScore))
}

func scorePart(s *int) string {
	if s == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *s)
}

// Title is "Home - Away"
func (f Fixture) Title() string {
	return f.HomeTeamName + " - " + f.AwayTeamName
}
