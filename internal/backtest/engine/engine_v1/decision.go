package engine

import "github.com/rxtech-lab/odte-backtest/internal/types"

const (
	// condorMinScore is the lowest score at which a calm market gets a condor.
	condorMinScore = 0
	// trendMinScore is the lowest score at which a trend gets a single-sided spread.
	trendMinScore = 2
)

// Decide maps a regime signal to the structure to attempt. Calm wins over a trend
// flag when both are set.
func Decide(signal types.RegimeSignal) types.DecisionType {
	switch {
	case signal.Calm && signal.Score >= condorMinScore:
		return types.DecisionCondor
	case signal.TrendUp && signal.Score >= trendMinScore:
		return types.DecisionPutSpread
	case signal.TrendDown && signal.Score >= trendMinScore:
		return types.DecisionCallSpread
	default:
		return types.DecisionNoGo
	}
}
