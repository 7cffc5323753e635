package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/risk"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/mocks"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// mockProvider joins the three data mocks into one datasource.Provider.
type mockProvider struct {
	*mocks.MockMarketData
	*mocks.MockOptionsData
	*mocks.MockEconCalendar
}

type decimalEq struct {
	want decimal.Decimal
}

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)

	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string {
	return fmt.Sprintf("decimal equal to %s", m.want)
}

type BacktestTradingTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	cfg      config.Config
	market   *mocks.MockMarketData
	options  *mocks.MockOptionsData
	calendar *mocks.MockEconCalendar
	scorer   *mocks.MockRegimeScorer
	builder  *mocks.MockSpreadBuilder
	risk     *mocks.MockRiskManager
	exec     *mocks.MockExecutionEngine
}

func TestBacktestTradingSuite(t *testing.T) {
	suite.Run(t, new(BacktestTradingTestSuite))
}

func (suite *BacktestTradingTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.cfg = config.Default()
	suite.market = mocks.NewMockMarketData(suite.ctrl)
	suite.options = mocks.NewMockOptionsData(suite.ctrl)
	suite.calendar = mocks.NewMockEconCalendar(suite.ctrl)
	suite.scorer = mocks.NewMockRegimeScorer(suite.ctrl)
	suite.builder = mocks.NewMockSpreadBuilder(suite.ctrl)
	suite.risk = mocks.NewMockRiskManager(suite.ctrl)
	suite.exec = mocks.NewMockExecutionEngine(suite.ctrl)
}

func (suite *BacktestTradingTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *BacktestTradingTestSuite) at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 11, hour, minute, 0, 0, suite.cfg.Location())
}

func (suite *BacktestTradingTestSuite) bar(ts time.Time, price string) types.Bar {
	p := decimal.RequireFromString(price)

	return types.Bar{Time: ts, Open: p, High: p, Low: p, Close: p, Volume: 1000}
}

func (suite *BacktestTradingTestSuite) newRun(cfg config.Config, callbacks engine.LifecycleCallbacks) *backtestRun {
	provider := mockProvider{suite.market, suite.options, suite.calendar}
	components := Components{
		Scorer:    suite.scorer,
		Builder:   suite.builder,
		Risk:      suite.risk,
		Execution: suite.exec,
	}

	return newBacktestRun("run-1", cfg, provider, components, nil, nil, callbacks, logger.NewNopLogger())
}

// budget stubs the day rollover calls every run makes.
func (suite *BacktestTradingTestSuite) budget() {
	suite.risk.EXPECT().RemainingBudget(gomock.Any()).Return(decimal.NewFromInt(500)).AnyTimes()
	suite.risk.EXPECT().State().Return(types.RiskState{DailyLossStop: decimal.NewFromInt(500)}).AnyTimes()
}

func (suite *BacktestTradingTestSuite) condor(ts time.Time, width, credit string) types.SpreadOrder {
	expiry := suite.cfg.TradingDay(ts)
	leg := func(strike string, right types.Right, ratio int) types.SpreadLeg {
		return types.SpreadLeg{Expiry: expiry, Strike: decimal.RequireFromString(strike), Right: right, Ratio: ratio}
	}

	return types.SpreadOrder{
		Timestamp: ts,
		Decision:  types.DecisionCondor,
		Expiry:    expiry,
		NetCredit: decimal.RequireFromString(credit),
		Width:     decimal.RequireFromString(width),
		Quantity:  1,
		Verticals: []types.Vertical{
			{Right: types.RightPut, Short: leg("495", types.RightPut, -1), Long: leg("493", types.RightPut, 1)},
			{Right: types.RightCall, Short: leg("505", types.RightCall, -1), Long: leg("507", types.RightCall, 1)},
		},
	}
}

func (suite *BacktestTradingTestSuite) chain(ts time.Time) []types.OptionQuote {
	expiry := suite.cfg.TradingDay(ts)
	quote := func(strike string, right types.Right, mid string, delta float64) types.OptionQuote {
		return types.OptionQuote{Time: ts, Expiry: expiry, Strike: decimal.RequireFromString(strike), Right: right, Mid: decimal.RequireFromString(mid), Delta: delta}
	}

	return []types.OptionQuote{
		quote("493", types.RightPut, "0.30", -0.15),
		quote("495", types.RightPut, "0.90", -0.30),
		quote("505", types.RightCall, "0.05", 0.04),
		quote("507", types.RightCall, "0.01", 0.01),
	}
}

func calmSignal(ts time.Time) types.RegimeSignal {
	return types.RegimeSignal{Time: ts, Score: 1, Calm: true, Reason: "calm"}
}

func (suite *BacktestTradingTestSuite) TestEmptyBarsGiveEmptyReport() {
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{}, nil)

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
	suite.Equal(types.RunStatusCompleted, report.Status)
	suite.Empty(report.Trades)
	suite.Empty(report.Daily)
	suite.True(report.NetPnL.IsZero())
	suite.Equal(0, report.TradeCount())
}

func (suite *BacktestTradingTestSuite) TestBarFaultAborts() {
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("disk gone"))

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestAborted))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
	suite.True(report.Aborted())
	suite.Contains(report.AbortReason, "disk gone")
	suite.Empty(report.Trades)
}

func (suite *BacktestTradingTestSuite) TestEntryThenPriceStop() {
	t0, t1, t2 := suite.at(9, 30), suite.at(9, 45), suite.at(10, 0)
	bars := []types.Bar{
		suite.bar(t0, "500"),
		suite.bar(suite.at(9, 31), "500.2"),
		suite.bar(t1, "496"),
		suite.bar(t2, "497"),
		suite.bar(suite.at(16, 5), "497"),
	}
	order := suite.condor(t0, "2", "0.36")
	position := types.OpenPosition{ID: "p-1", Order: order, EntryPrice: decimal.RequireFromString("0.335"), EntryTime: t0}
	stopPrice := decimal.RequireFromString("0.675")
	trade := types.TradeResult{Position: position, ExitTime: t1, ExitPrice: stopPrice, PnL: decimal.NewFromInt(-38), Reason: "stop_credit_x2.2"}

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return(bars, nil)

	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(order), nil)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true)
	suite.exec.EXPECT().TryEnter(gomock.Any()).Return(position)
	suite.risk.EXPECT().RegisterOpen(t0, types.DecisionCondor)

	// (0.90 - 0.30) + (0.05 - 0.01)
	suite.options.EXPECT().GetQuotesAt(t1).Return(suite.chain(t1), nil)
	suite.exec.EXPECT().ShouldExit(position, decimalEq{decimal.RequireFromString("0.64")}, 0.30, t1).
		Return(types.ExitSignal{Exit: true, Price: stopPrice, Reason: "stop_credit_x2.2"})
	suite.exec.EXPECT().Exit(position, t1, stopPrice, types.ExitReason("stop_credit_x2.2")).Return(trade)
	suite.risk.EXPECT().RegisterClose(t1, types.DecisionCondor, trade.PnL)

	suite.scorer.EXPECT().Score(t1, gomock.Any(), gomock.Any()).Return(types.NoGoSignal(t1, "choppy"), nil)
	suite.scorer.EXPECT().Score(t2, gomock.Any(), gomock.Any()).Return(types.NoGoSignal(t2, "choppy"), nil)

	var closed []types.TradeResult
	onTrade := engine.OnTradeClosedCallback(func(trade types.TradeResult) { closed = append(closed, trade) })

	var days []types.DayPnL
	onDay := engine.OnDayEndCallback(func(day types.DayPnL) { days = append(days, day) })

	var progress []int
	onProgress := engine.OnProcessDataCallback(func(current, total int) error {
		progress = append(progress, current)
		suite.Equal(4, total)

		return nil
	})

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{
		OnTradeClosed: &onTrade,
		OnDayEnd:      &onDay,
		OnProcessData: &onProgress,
	}).execute()
	suite.Require().NoError(err)

	suite.Equal(types.RunStatusCompleted, report.Status)
	suite.Len(report.Trades, 1)
	suite.True(decimal.NewFromInt(-38).Equal(report.NetPnL))
	suite.Equal(1, report.Losses)
	suite.Len(closed, 1)
	suite.Equal([]int{1, 2, 3, 4}, progress)

	suite.Require().Len(days, 1)
	suite.True(days[0].Date.Equal(suite.cfg.TradingDay(t0)))
	suite.True(decimal.NewFromInt(-38).Equal(days[0].PnL))
	suite.True(decimal.NewFromInt(500).Equal(days[0].Budget))
	suite.Equal(1, days[0].Trades)
	suite.Equal(days, report.Daily)
}

func (suite *BacktestTradingTestSuite) TestTerminalBarSettlesPosition() {
	t0, t1 := suite.at(9, 30), suite.at(9, 45)
	bars := []types.Bar{suite.bar(t0, "500"), suite.bar(t1, "494.5")}
	order := suite.condor(t0, "2", "0.36")
	position := types.OpenPosition{ID: "p-1", Order: order, EntryPrice: decimal.RequireFromString("0.335"), EntryTime: t0}
	trade := types.TradeResult{Position: position, ExitTime: t1, PnL: decimal.NewFromInt(-20), Reason: types.ExitReasonPMSettlement}

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return(bars, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(order), nil)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true)
	suite.exec.EXPECT().TryEnter(gomock.Any()).Return(position)
	suite.risk.EXPECT().RegisterOpen(t0, types.DecisionCondor)

	suite.options.EXPECT().GetQuotesAt(t1).Return(suite.chain(t1), nil)
	suite.exec.EXPECT().ShouldExit(position, gomock.Any(), gomock.Any(), t1).Return(types.NoExit())
	suite.scorer.EXPECT().Score(t1, gomock.Any(), gomock.Any()).Return(types.NoGoSignal(t1, "choppy"), nil)

	// 495 put is 0.5 in the money at 494.5
	suite.exec.EXPECT().Exit(position, t1, decimalEq{decimal.RequireFromString("0.5")}, types.ExitReasonPMSettlement).Return(trade)
	suite.risk.EXPECT().RegisterClose(t1, types.DecisionCondor, trade.PnL)

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.Require().NoError(err)
	suite.Require().Len(report.Trades, 1)
	suite.Equal(types.ExitReasonPMSettlement, report.Trades[0].Reason)
}

func (suite *BacktestTradingTestSuite) TestMissingLegQuoteHoldsPosition() {
	t0, t1, t2 := suite.at(9, 30), suite.at(9, 45), suite.at(10, 0)
	bars := []types.Bar{suite.bar(t0, "500"), suite.bar(t1, "500"), suite.bar(t2, "500")}
	order := suite.condor(t0, "2", "0.36")
	position := types.OpenPosition{ID: "p-1", Order: order, EntryPrice: decimal.RequireFromString("0.335"), EntryTime: t0}

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return(bars, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(order), nil)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true)
	suite.exec.EXPECT().TryEnter(gomock.Any()).Return(position)
	suite.risk.EXPECT().RegisterOpen(t0, types.DecisionCondor)

	suite.options.EXPECT().GetQuotesAt(t1).Return(suite.chain(t1)[:3], nil)
	suite.scorer.EXPECT().Score(t1, gomock.Any(), gomock.Any()).Return(types.NoGoSignal(t1, "choppy"), nil)

	suite.options.EXPECT().GetQuotesAt(t2).Return(suite.chain(t2)[:3], nil)
	suite.scorer.EXPECT().Score(t2, gomock.Any(), gomock.Any()).Return(types.NoGoSignal(t2, "choppy"), nil)
	suite.exec.EXPECT().Exit(position, t2, gomock.Any(), types.ExitReasonPMSettlement).Return(types.TradeResult{Position: position, PnL: decimal.NewFromInt(30)})
	suite.risk.EXPECT().RegisterClose(t2, types.DecisionCondor, gomock.Any())

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.Require().NoError(err)
	suite.Len(report.Trades, 1)
}

func (suite *BacktestTradingTestSuite) TestRiskRejectionSkipsBuild() {
	t0 := suite.at(9, 30)

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(false)
	suite.risk.EXPECT().RejectReason(t0, types.DecisionCondor).Return(risk.ReasonDailyLossStop)

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
	suite.Empty(report.Trades)
	suite.Len(report.Daily, 1)
	suite.Equal(0, report.Daily[0].Trades)
}

func (suite *BacktestTradingTestSuite) TestNoViableOrderIsNotAnError() {
	t0 := suite.at(9, 30)

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.None[types.SpreadOrder](), nil)

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
	suite.Equal(types.RunStatusCompleted, report.Status)
	suite.Empty(report.Trades)
}

func (suite *BacktestTradingTestSuite) TestScorerFaultAbortsWithPartialDay() {
	t0 := suite.at(9, 30)

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500"), suite.bar(suite.at(9, 45), "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).
		Return(types.RegimeSignal{}, errors.New(errors.ErrCodeDataSourceUnavailable, "calendar offline"))

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestAborted))
	suite.True(report.Aborted())
	suite.Len(report.Daily, 1)
}

func (suite *BacktestTradingTestSuite) TestQuoteFaultKeepsEarlierTrades() {
	day1, day2 := suite.at(9, 30), suite.at(9, 30).AddDate(0, 0, 1)
	order := suite.condor(day1, "2", "0.36")
	position := types.OpenPosition{ID: "p-1", Order: order, EntryPrice: decimal.RequireFromString("0.335"), EntryTime: day1}
	second := types.OpenPosition{ID: "p-2", Order: suite.condor(day2, "2", "0.36"), EntryPrice: decimal.RequireFromString("0.335"), EntryTime: day2}
	day2Next := day2.Add(15 * time.Minute)

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{
		suite.bar(day1, "500"), suite.bar(day2, "500"), suite.bar(day2Next, "500"),
	}, nil)

	suite.scorer.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ts time.Time, _ any, _ any) (types.RegimeSignal, error) { return calmSignal(ts), nil }).Times(2)
	suite.risk.EXPECT().CanAdd(gomock.Any(), types.DecisionCondor).Return(true).Times(2)
	suite.builder.EXPECT().TryBuild(gomock.Any(), types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(order), nil).Times(2)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true).Times(2)
	gomock.InOrder(
		suite.exec.EXPECT().TryEnter(gomock.Any()).Return(position),
		suite.exec.EXPECT().TryEnter(gomock.Any()).Return(second),
	)
	suite.risk.EXPECT().RegisterOpen(gomock.Any(), types.DecisionCondor).Times(2)

	// day 1 has a single bar, so the entry settles on the same bar
	suite.exec.EXPECT().Exit(position, day1, gomock.Any(), types.ExitReasonPMSettlement).Return(types.TradeResult{Position: position, PnL: decimal.NewFromInt(25)})
	suite.risk.EXPECT().RegisterClose(day1, types.DecisionCondor, gomock.Any())

	suite.options.EXPECT().GetQuotesAt(day2Next).Return(nil, fmt.Errorf("snapshot store offline"))

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{}).execute()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestAborted))
	suite.True(report.Aborted())
	suite.Len(report.Trades, 1)
	suite.True(decimal.NewFromInt(25).Equal(report.NetPnL))
	suite.Len(report.Daily, 2)
}

func (suite *BacktestTradingTestSuite) TestScaleToFitNarrowsWidth() {
	cfg := suite.cfg
	cfg.Risk.PerTradeMaxLoss = 100
	cfg.Risk.ScaleToFit = true

	t0 := suite.at(9, 30)
	wide := suite.condor(t0, "2", "0.36")
	narrow := suite.condor(t0, "1", "0.20")

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(wide), nil)
	suite.builder.EXPECT().TryBuildWithWidth(t0, types.DecisionCondor, gomock.Any(), gomock.Any(), decimalEq{decimal.NewFromInt(1)}).
		Return(optional.Some(narrow), nil)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true)
	suite.exec.EXPECT().TryEnter(gomock.Any()).DoAndReturn(func(order types.SpreadOrder) types.OpenPosition {
		suite.True(decimal.NewFromInt(1).Equal(order.Width))
		suite.Equal(1, order.Quantity)

		return types.OpenPosition{ID: "p-1", Order: order}
	})
	suite.risk.EXPECT().RegisterOpen(t0, types.DecisionCondor)
	suite.exec.EXPECT().Exit(gomock.Any(), t0, gomock.Any(), types.ExitReasonPMSettlement).Return(types.TradeResult{PnL: decimal.NewFromInt(20)})
	suite.risk.EXPECT().RegisterClose(t0, types.DecisionCondor, gomock.Any())

	_, err := suite.newRun(cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
}

func (suite *BacktestTradingTestSuite) TestProbeOneLot() {
	cfg := suite.cfg
	cfg.Risk.PerTradeMaxLoss = 100
	cfg.Risk.ProbeOneLot = true

	t0 := suite.at(9, 30)
	order := suite.condor(t0, "2", "0.36")

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(order), nil)
	suite.risk.EXPECT().CanAddOrder(gomock.Any()).Return(true)
	suite.exec.EXPECT().TryEnter(gomock.Any()).DoAndReturn(func(order types.SpreadOrder) types.OpenPosition {
		suite.True(decimal.NewFromInt(2).Equal(order.Width))
		suite.Equal(1, order.Quantity)

		return types.OpenPosition{ID: "p-1", Order: order}
	})
	suite.risk.EXPECT().RegisterOpen(t0, types.DecisionCondor)
	suite.exec.EXPECT().Exit(gomock.Any(), t0, gomock.Any(), types.ExitReasonPMSettlement).Return(types.TradeResult{PnL: decimal.NewFromInt(20)})
	suite.risk.EXPECT().RegisterClose(t0, types.DecisionCondor, gomock.Any())

	_, err := suite.newRun(cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
}

func (suite *BacktestTradingTestSuite) TestSizedOutSkipsEntry() {
	cfg := suite.cfg
	cfg.Risk.PerTradeMaxLoss = 100

	t0 := suite.at(9, 30)

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return([]types.Bar{suite.bar(t0, "500")}, nil)
	suite.scorer.EXPECT().Score(t0, gomock.Any(), gomock.Any()).Return(calmSignal(t0), nil)
	suite.risk.EXPECT().CanAdd(t0, types.DecisionCondor).Return(true)
	suite.builder.EXPECT().TryBuild(t0, types.DecisionCondor, gomock.Any(), gomock.Any()).Return(optional.Some(suite.condor(t0, "2", "0.36")), nil)

	report, err := suite.newRun(cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
	suite.Empty(report.Trades)
}

func (suite *BacktestTradingTestSuite) TestWindowCoversWholeEndDay() {
	day := suite.cfg.TradingDay(suite.at(9, 30))
	cfg := suite.cfg.WithRange(day, day)
	bars := []types.Bar{suite.bar(suite.at(9, 30), "500"), suite.bar(suite.at(9, 31), "500")}

	suite.budget()
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).DoAndReturn(func(start, end time.Time) ([]types.Bar, error) {
		suite.True(start.Equal(day))
		suite.True(end.After(suite.at(16, 0)))
		suite.True(end.Before(suite.at(9, 30).AddDate(0, 0, 1)))

		return bars, nil
	})
	suite.scorer.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(types.NoGoSignal(day, "test"), nil).AnyTimes()

	report, err := suite.newRun(cfg, engine.LifecycleCallbacks{}).execute()
	suite.NoError(err)
	suite.Len(report.Daily, 1)
}

func (suite *BacktestTradingTestSuite) TestCallbackFaultIsNotADataFault() {
	bars := []types.Bar{suite.bar(suite.at(9, 30), "500")}
	suite.market.EXPECT().GetBars(gomock.Any(), gomock.Any()).Return(bars, nil)

	onStart := engine.OnRunStartCallback(func(string, int) error {
		return fmt.Errorf("progress sink closed")
	})

	report, err := suite.newRun(suite.cfg, engine.LifecycleCallbacks{OnRunStart: &onStart}).execute()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestAborted))
	suite.True(errors.HasCode(err, errors.ErrCodeCallbackFailed))
	suite.False(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
	suite.True(report.Aborted())
	suite.Contains(report.AbortReason, "progress sink closed")
}

func (suite *BacktestTradingTestSuite) TestSplitByDay() {
	bars := []types.Bar{
		suite.bar(suite.at(9, 30), "500"),
		suite.bar(suite.at(15, 59), "500"),
		suite.bar(suite.at(9, 30).AddDate(0, 0, 1), "500"),
	}

	days := splitByDay(suite.cfg, bars)
	suite.Len(days, 2)
	suite.Len(days[0], 2)
	suite.Len(days[1], 1)
	suite.Empty(splitByDay(suite.cfg, nil))
}
