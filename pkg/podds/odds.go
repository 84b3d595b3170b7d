package podds

import (
	"encoding/json"
	"strconv"

	"github.com/richard-senior/sofabet/pkg/util"
	"github.com/shopspring/decimal"
)

// Odds is a decimal price that may not exist
type Odds struct {
	Value     float64
	Available bool
}

// NewOdds wraps a known decimal price
func NewOdds(v float64) Odds {
	return Odds{Value: v, Available: true}
}

// Unavailable is the absent price
func Unavailable() Odds {
	return Odds{}
}

func (o Odds) String() string {
	if !o.Available {
		return "n/a"
	}
	return strconv.FormatFloat(o.Value, 'f', 2, 64)
}

// MarshalJSON writes unavailable odds as null
func (o Odds) MarshalJSON() ([]byte, error) {
	if !o.Available {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Odds) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Unavailable()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = NewOdds(v)
	return nil
}

// FairOdds is the price with no margin, 1/p
func FairOdds(p float64) Odds {
	if p < 0 {
		return Unavailable()
	}
	v, ok := util.Divide(1, p)
	if !ok {
		return Unavailable()
	}
	return NewOdds(v)
}

// Edge is the expected return per unit staked at the bookmaker's price if the model is right
// Positive means the bookmaker is offering more than the model thinks is fair
func Edge(model float64, bookmaker Odds) Odds {
	if !bookmaker.Available {
		return Unavailable()
	}
	return NewOdds(model*bookmaker.Value - 1)
}

// MatchOdds are 1X2 prices
type MatchOdds struct {
	Home Odds `json:"home"`
	Draw Odds `json:"draw"`
	Away Odds `json:"away"`
}

// UnavailableMatchOdds is used when no market is published
func UnavailableMatchOdds() MatchOdds {
	return MatchOdds{Home: Unavailable(), Draw: Unavailable(), Away: Unavailable()}
}

// MatchOddsFromFractional converts three UK style prices ("11/10") to decimal odds
func MatchOddsFromFractional(home, draw, away string) MatchOdds {
	return MatchOdds{
		Home: FractionalToDecimal(home),
		Draw: FractionalToDecimal(draw),
		Away: FractionalToDecimal(away),
	}
}

// FractionalToDecimal is 1 + num/den, unavailable when the fraction cannot be evaluated
func FractionalToDecimal(fraction string) Odds {
	v, err := util.EvaluateFraction(fraction)
	if err != nil {
		return Unavailable()
	}
	return NewOdds(decimal.NewFromInt(1).Add(v).InexactFloat64())
}

// AnyAvailable is true if at least one price is known
func (m MatchOdds) AnyAvailable() bool {
	return m.Home.Available || m.Draw.Available || m.Away.Available
}

// Overround is the bookmaker margin, sum of implied probabilities minus one
func (m MatchOdds) Overround() (float64, bool) {
	if !m.Home.Available || !m.Draw.Available || !m.Away.Available {
		return 0, false
	}
	return 1/m.Home.Value + 1/m.Draw.Value + 1/m.Away.Value - 1, true
}
