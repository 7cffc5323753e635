package indicator

import (
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// ATR is the simple mean of the last period true ranges.
// The first bar of the input has no previous close, so its true range is high - low.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		period: 20,
	}
}

func (a *ATR) Name() IndicatorType {
	return IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
	period, err := periodParam(params)
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

// Compute returns {"atr": value}. Fewer than period bars average what is available.
func (a *ATR) Compute(bars []types.Bar) (Value, error) {
	if len(bars) == 0 {
		return nil, errors.NewInsufficientDataError(string(a.Name()), 1, 0)
	}

	start := 0
	if len(bars) > a.period {
		start = len(bars) - a.period
	}

	sum := decimal.Zero

	for i := start; i < len(bars); i++ {
		sum = sum.Add(trueRange(bars, i))
	}

	count := decimal.NewFromInt(int64(len(bars) - start))

	return Value{"atr": sum.Div(count)}, nil
}

func trueRange(bars []types.Bar, i int) decimal.Decimal {
	bar := bars[i]
	tr := bar.High.Sub(bar.Low)

	if i == 0 {
		return tr
	}

	prevClose := bars[i-1].Close
	tr = types.MaxDecimal(tr, bar.High.Sub(prevClose).Abs())

	return types.MaxDecimal(tr, bar.Low.Sub(prevClose).Abs())
}
