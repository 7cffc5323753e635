package indicator

import (
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

// VWAP is the rolling volume weighted typical price over the last window bars.
type VWAP struct {
	window int
}

// NewVWAP creates a new VWAP indicator with a 30 bar window.
func NewVWAP() Indicator {
	return &VWAP{
		window: 30,
	}
}

func (v *VWAP) Name() IndicatorType {
	return IndicatorTypeVWAP
}

// Config configures the VWAP window. Expected parameters: window (int).
func (v *VWAP) Config(params ...any) error {
	window, err := periodParam(params)
	if err != nil {
		return err
	}

	v.window = window

	return nil
}

// Compute returns {"vwap": value}. Zero total volume falls back to the plain mean of typical prices.
func (v *VWAP) Compute(bars []types.Bar) (Value, error) {
	if len(bars) == 0 {
		return nil, errors.NewInsufficientDataError(string(v.Name()), 1, 0)
	}

	start := 0
	if len(bars) > v.window {
		start = len(bars) - v.window
	}

	weighted := decimal.Zero
	volume := decimal.Zero
	plain := decimal.Zero

	for _, bar := range bars[start:] {
		typical := bar.High.Add(bar.Low).Add(bar.Close).Div(three)
		barVolume := decimal.NewFromFloat(bar.Volume)

		weighted = weighted.Add(typical.Mul(barVolume))
		volume = volume.Add(barVolume)
		plain = plain.Add(typical)
	}

	if volume.IsZero() {
		return Value{"vwap": plain.Div(decimal.NewFromInt(int64(len(bars) - start)))}, nil
	}

	return Value{"vwap": weighted.Div(volume)}, nil
}
