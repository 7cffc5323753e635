package regime

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/types"
)

// NeutralScorer reports every tradable timestamp as calm with score 0,
// honoring only missing data and event blackouts.
type NeutralScorer struct {
	cfg config.Config
}

func NewNeutralScorer(cfg config.Config) *NeutralScorer {
	return &NeutralScorer{cfg: cfg}
}

func (s *NeutralScorer) Score(ts time.Time, market datasource.MarketData, calendar datasource.EconCalendar) (types.RegimeSignal, error) {
	bars, err := todayBars(s.cfg, ts, market)
	if err != nil {
		return types.NoGoSignal(ts, ReasonNoData), err
	}

	if len(bars) == 0 {
		return types.NoGoSignal(ts, ReasonNoData), nil
	}

	blackout, _, err := eventWindow(s.cfg, ts, calendar)
	if err != nil {
		return types.NoGoSignal(ts, ReasonNoData), err
	}

	if blackout {
		return types.NoGoSignal(ts, ReasonEventBlackout), nil
	}

	return types.RegimeSignal{Time: ts, Score: 0, Calm: true, Reason: ReasonNeutral}, nil
}
