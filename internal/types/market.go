package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLCV bar of the underlying.
type Bar struct {
	Time   time.Time       `yaml:"time" json:"time"`
	Open   decimal.Decimal `yaml:"open" json:"open"`
	High   decimal.Decimal `yaml:"high" json:"high"`
	Low    decimal.Decimal `yaml:"low" json:"low"`
	Close  decimal.Decimal `yaml:"close" json:"close"`
	Volume float64         `yaml:"volume" json:"volume"`
}

// Right is the option right: call or put.
type Right string

const (
	RightCall Right = "C"
	RightPut  Right = "P"
)

// OptionQuote is a single contract in a chain snapshot.
// Delta and IV are supplied by the data provider.
type OptionQuote struct {
	Time   time.Time       `yaml:"time" json:"time"`
	Expiry time.Time       `yaml:"expiry" json:"expiry"`
	Strike decimal.Decimal `yaml:"strike" json:"strike"`
	Right  Right           `yaml:"right" json:"right"`
	Bid    decimal.Decimal `yaml:"bid" json:"bid"`
	Ask    decimal.Decimal `yaml:"ask" json:"ask"`
	Mid    decimal.Decimal `yaml:"mid" json:"mid"`
	Delta  float64         `yaml:"delta" json:"delta"`
	IV     float64         `yaml:"iv" json:"iv"`
}

// SpreadPct returns (ask - bid) / mid. A non-positive mid yields ok=false.
func (q OptionQuote) SpreadPct() (pct decimal.Decimal, ok bool) {
	if !q.Mid.IsPositive() {
		return decimal.Zero, false
	}

	return q.Ask.Sub(q.Bid).Div(q.Mid), true
}

// EconEvent is a scheduled economic release (FOMC, CPI, NFP...).
type EconEvent struct {
	Time time.Time `yaml:"time" json:"time"`
	Name string    `yaml:"name" json:"name"`
}

// SameDate reports whether a and b fall on the same calendar date in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	return ay == by && am == bm && ad == bd
}

// DateOf truncates ts to midnight of its calendar date in loc.
func DateOf(ts time.Time, loc *time.Location) time.Time {
	y, m, d := ts.In(loc).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AsDate keeps the calendar date of t as written in t's own location and places it
// at midnight in loc. Use it for date-only values such as expiries read as UTC midnight.
func AsDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
