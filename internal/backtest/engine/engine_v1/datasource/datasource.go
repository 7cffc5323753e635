package datasource

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// MarketData supplies underlying bars. Bars are strictly time ordered.
type MarketData interface {
	// GetBars returns the bars with start <= time <= end, oldest first
	GetBars(start time.Time, end time.Time) ([]types.Bar, error)
	// GetSpot returns the close of the latest bar at or before ts on the same trading day.
	// Zero when there is none.
	GetSpot(ts time.Time) (decimal.Decimal, error)
}

// OptionsData supplies option chain snapshots with no look-ahead.
type OptionsData interface {
	// TodayExpiry returns the expiry date traded at ts
	TodayExpiry(ts time.Time) (time.Time, error)
	// GetQuotesAt returns the latest snapshot taken at or before ts on the same trading day
	GetQuotesAt(ts time.Time) ([]types.OptionQuote, error)
}

// EconCalendar supplies scheduled economic events.
type EconCalendar interface {
	GetEvents(start time.Time, end time.Time) ([]types.EconEvent, error)
}

// Provider is a single source for all three collaborators.
type Provider interface {
	MarketData
	OptionsData
	EconCalendar
}
