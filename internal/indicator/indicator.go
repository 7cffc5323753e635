package indicator

import (
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

type IndicatorType string

const (
	IndicatorTypeATR          IndicatorType = "atr"
	IndicatorTypeVWAP         IndicatorType = "vwap"
	IndicatorTypeOpeningRange IndicatorType = "opening_range"
)

// Value holds the named outputs of one indicator evaluation, e.g. "atr" or "high"/"low".
type Value map[string]decimal.Decimal

// Indicator interface defines methods that any bar indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() IndicatorType
	// Config sets the indicator parameters
	Config(params ...any) error
	// Compute evaluates the indicator over bars ordered oldest first
	Compute(bars []types.Bar) (Value, error)
}

func periodParam(params []any) (int, error) {
	if len(params) != 1 {
		return 0, errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return period, nil
}
