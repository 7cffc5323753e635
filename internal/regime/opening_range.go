package regime

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/indicator"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var half = decimal.NewFromFloat(0.5)

// OpeningRangeScorer scores breakouts of the opening range confirmed by VWAP,
// and calm sessions where price holds within one ATR of VWAP.
//
//	trend (close beyond OR and VWAP)  2, +1 when the breakout is at least half an ATR
//	calm  (inside OR, |close-VWAP| <= ATR)  1
//	anything else  -1
//	event later today  -1
type OpeningRangeScorer struct {
	cfg          config.Config
	openingRange indicator.Indicator
	vwap         indicator.Indicator
	atr          indicator.Indicator
	logger       *logger.Logger
}

func NewOpeningRangeScorer(cfg config.Config, log *logger.Logger) (*OpeningRangeScorer, error) {
	registry, err := indicator.NewSessionRegistry(cfg.Regime.OpeningRangeMinutes, cfg.Regime.VWAPWindow, cfg.Regime.ATRPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid regime indicator settings", err)
	}

	s := &OpeningRangeScorer{cfg: cfg, logger: log.Named("regime")}

	for name, target := range map[indicator.IndicatorType]*indicator.Indicator{
		indicator.IndicatorTypeOpeningRange: &s.openingRange,
		indicator.IndicatorTypeVWAP:         &s.vwap,
		indicator.IndicatorTypeATR:          &s.atr,
	} {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		*target = ind
	}

	return s, nil
}

func (s *OpeningRangeScorer) Score(ts time.Time, market datasource.MarketData, calendar datasource.EconCalendar) (types.RegimeSignal, error) {
	bars, err := todayBars(s.cfg, ts, market)
	if err != nil {
		return types.NoGoSignal(ts, ReasonNoData), err
	}

	if len(bars) == 0 || !types.SameDate(bars[len(bars)-1].Time, ts, s.cfg.Location()) {
		return types.NoGoSignal(ts, ReasonNoData), nil
	}

	blackout, eventLater, err := eventWindow(s.cfg, ts, calendar)
	if err != nil {
		return types.NoGoSignal(ts, ReasonNoData), err
	}

	if blackout {
		return types.NoGoSignal(ts, ReasonEventBlackout), nil
	}

	signal := s.classify(ts, bars)

	if eventLater {
		signal.Score--
		signal.Reason += eventLaterTodayMarker
	}

	s.logger.Debug("Scored regime",
		zap.Time("time", ts),
		zap.Int("score", signal.Score),
		zap.String("reason", signal.Reason),
	)

	return signal, nil
}

func (s *OpeningRangeScorer) classify(ts time.Time, bars []types.Bar) types.RegimeSignal {
	orValue, err := s.openingRange.Compute(bars)
	if err != nil {
		return types.RegimeSignal{Time: ts, Score: -1, Reason: ReasonRangePending}
	}

	vwapValue, err := s.vwap.Compute(bars)
	if err != nil {
		return types.RegimeSignal{Time: ts, Score: -1, Reason: ReasonRangePending}
	}

	atrValue, err := s.atr.Compute(bars)
	if err != nil {
		return types.RegimeSignal{Time: ts, Score: -1, Reason: ReasonRangePending}
	}

	closePrice := bars[len(bars)-1].Close
	high, low := orValue["high"], orValue["low"]
	vwap, atr := vwapValue["vwap"], atrValue["atr"]

	switch {
	case closePrice.GreaterThan(high) && closePrice.GreaterThan(vwap):
		return types.RegimeSignal{Time: ts, Score: trendScore(closePrice.Sub(high), atr), TrendUp: true, Reason: ReasonTrendUp}
	case closePrice.LessThan(low) && closePrice.LessThan(vwap):
		return types.RegimeSignal{Time: ts, Score: trendScore(low.Sub(closePrice), atr), TrendDown: true, Reason: ReasonTrendDown}
	case !closePrice.GreaterThan(high) && !closePrice.LessThan(low) && closePrice.Sub(vwap).Abs().LessThanOrEqual(atr):
		return types.RegimeSignal{Time: ts, Score: 1, Calm: true, Reason: ReasonCalm}
	default:
		return types.RegimeSignal{Time: ts, Score: -1, Reason: ReasonChoppy}
	}
}

func trendScore(breakout decimal.Decimal, atr decimal.Decimal) int {
	if breakout.GreaterThanOrEqual(atr.Mul(half)) {
		return 3
	}

	return 2
}
