// Package regime classifies the market state at a decision timestamp.
//
// A scorer never fails on missing data: no bars at the timestamp yields the
// conservative no-go signal. Errors are returned only when a provider itself
// faults.
package regime

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
)

const (
	ReasonNoData          = "no_data"
	ReasonEventBlackout   = "event_blackout"
	ReasonRangePending    = "opening_range_pending"
	ReasonTrendUp         = "trend_up"
	ReasonTrendDown       = "trend_down"
	ReasonCalm            = "calm"
	ReasonChoppy          = "choppy"
	ReasonNeutral         = "neutral"
	eventLaterTodayMarker = "+event_later"
)

// RegimeScorer classifies a timestamp into a coarse actionability signal.
type RegimeScorer interface {
	Score(ts time.Time, market datasource.MarketData, calendar datasource.EconCalendar) (types.RegimeSignal, error)
}

// New returns the scorer selected by regime.classifier.
func New(cfg config.Config, log *logger.Logger) (RegimeScorer, error) {
	switch cfg.Regime.Classifier {
	case config.ClassifierOpeningRange:
		return NewOpeningRangeScorer(cfg, log)
	case config.ClassifierNeutral:
		return NewNeutralScorer(cfg), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown regime classifier %q", cfg.Regime.Classifier)
	}
}

// eventWindow reports whether ts is inside any event blackout and whether an event
// is still scheduled later today outside the blackout.
func eventWindow(cfg config.Config, ts time.Time, calendar datasource.EconCalendar) (blackout bool, laterToday bool, err error) {
	if calendar == nil {
		return false, false, nil
	}

	day := cfg.TradingDay(ts)

	events, err := calendar.GetEvents(day, day.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		return false, false, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read economic calendar", err)
	}

	before := time.Duration(cfg.Regime.EventBlackoutBeforeMinutes) * time.Minute
	after := time.Duration(cfg.Regime.EventBlackoutAfterMinutes) * time.Minute

	for _, event := range events {
		if !ts.Before(event.Time.Add(-before)) && !ts.After(event.Time.Add(after)) {
			return true, false, nil
		}

		if event.Time.After(ts) {
			laterToday = true
		}
	}

	return false, laterToday, nil
}

// todayBars returns the bars from the session open up to and including ts.
func todayBars(cfg config.Config, ts time.Time, market datasource.MarketData) ([]types.Bar, error) {
	open, _ := cfg.SessionBounds(ts)
	if ts.Before(open) {
		open = cfg.TradingDay(ts)
	}

	bars, err := market.GetBars(open, ts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read bars", err)
	}

	return bars, nil
}
