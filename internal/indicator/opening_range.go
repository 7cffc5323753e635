package indicator

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
)

// OpeningRange is the high and low of the first N minutes of the bars given.
// The first bar is taken as the session open.
type OpeningRange struct {
	minutes int
}

// NewOpeningRange creates a 15 minute opening range.
func NewOpeningRange() Indicator {
	return &OpeningRange{
		minutes: 15,
	}
}

func (o *OpeningRange) Name() IndicatorType {
	return IndicatorTypeOpeningRange
}

// Config configures the range length. Expected parameters: minutes (int).
func (o *OpeningRange) Config(params ...any) error {
	minutes, err := periodParam(params)
	if err != nil {
		return err
	}

	o.minutes = minutes

	return nil
}

// Complete reports whether bars extend past the end of the opening range.
func (o *OpeningRange) Complete(bars []types.Bar) bool {
	if len(bars) == 0 {
		return false
	}

	end := bars[0].Time.Add(time.Duration(o.minutes) * time.Minute)

	return !bars[len(bars)-1].Time.Before(end)
}

// Compute returns {"high": h, "low": l}. An unfinished range is an InsufficientDataError.
func (o *OpeningRange) Compute(bars []types.Bar) (Value, error) {
	if !o.Complete(bars) {
		return nil, errors.NewInsufficientDataError(string(o.Name()), o.minutes, len(bars))
	}

	end := bars[0].Time.Add(time.Duration(o.minutes) * time.Minute)
	high := bars[0].High
	low := bars[0].Low

	for _, bar := range bars[1:] {
		if !bar.Time.Before(end) {
			break
		}

		if bar.High.GreaterThan(high) {
			high = bar.High
		}

		if bar.Low.LessThan(low) {
			low = bar.Low
		}
	}

	return Value{"high": high, "low": low}, nil
}
