package risk

import (
	"testing"
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RiskTestSuite struct {
	suite.Suite
	cfg config.Config
	loc *time.Location
}

func TestRiskSuite(t *testing.T) {
	suite.Run(t, new(RiskTestSuite))
}

func (suite *RiskTestSuite) SetupTest() {
	suite.cfg = config.Default()
	suite.loc = suite.cfg.Location()
}

func (suite *RiskTestSuite) at(day int, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, suite.loc)
}

func (suite *RiskTestSuite) newManager(cfg config.Config) *Manager {
	policy, err := NewBudgetPolicy(cfg.Risk)
	suite.Require().NoError(err)

	return NewManager(cfg, policy, logger.NewNopLogger())
}

func putSpread(ts time.Time, width, credit string, qty int) types.SpreadOrder {
	return types.SpreadOrder{
		Timestamp: ts,
		Decision:  types.DecisionPutSpread,
		NetCredit: decimal.RequireFromString(credit),
		Width:     decimal.RequireFromString(width),
		Quantity:  qty,
	}
}

func (suite *RiskTestSuite) TestSideLimits() {
	m := suite.newManager(suite.cfg)
	ts := suite.at(11, 10, 0)

	suite.True(m.CanAdd(ts, types.DecisionPutSpread))
	m.RegisterOpen(ts, types.DecisionPutSpread)
	m.RegisterOpen(ts, types.DecisionPutSpread)

	suite.False(m.CanAdd(ts, types.DecisionPutSpread))
	suite.Equal(ReasonPutSideFull, m.RejectReason(ts, types.DecisionPutSpread))
	suite.False(m.CanAdd(ts, types.DecisionCondor))
	suite.True(m.CanAdd(ts, types.DecisionCallSpread))

	m.RegisterOpen(ts, types.DecisionCondor)
	suite.Equal(3, m.State().OpenPuts)
	suite.Equal(1, m.State().OpenCalls)

	m.RegisterClose(ts, types.DecisionCondor, decimal.Zero)
	m.RegisterClose(ts, types.DecisionPutSpread, decimal.Zero)
	suite.True(m.CanAdd(ts, types.DecisionCondor))
}

func (suite *RiskTestSuite) TestCountersNeverGoNegative() {
	m := suite.newManager(suite.cfg)
	ts := suite.at(11, 10, 0)

	m.RegisterClose(ts, types.DecisionCondor, decimal.Zero)
	m.RegisterClose(ts, types.DecisionCallSpread, decimal.Zero)

	suite.Equal(0, m.State().OpenPuts)
	suite.Equal(0, m.State().OpenCalls)
}

func (suite *RiskTestSuite) TestDailyLossStop() {
	m := suite.newManager(suite.cfg)
	ts := suite.at(11, 10, 0)

	m.RegisterOpen(ts, types.DecisionPutSpread)
	m.RegisterClose(ts, types.DecisionPutSpread, decimal.NewFromInt(-499))
	suite.True(m.CanAdd(ts, types.DecisionCallSpread))

	m.RegisterOpen(ts, types.DecisionCallSpread)
	m.RegisterClose(ts, types.DecisionCallSpread, decimal.NewFromInt(-1))

	for _, decision := range []types.DecisionType{types.DecisionPutSpread, types.DecisionCallSpread, types.DecisionCondor} {
		suite.False(m.CanAdd(ts, decision))
		suite.Equal(ReasonDailyLossStop, m.RejectReason(ts, decision))
	}

	suite.True(m.CanAdd(ts, types.DecisionNoGo))
	suite.True(m.RemainingBudget(ts).IsZero())
}

func (suite *RiskTestSuite) TestCloseCutoff() {
	m := suite.newManager(suite.cfg)

	suite.True(m.CanAdd(suite.at(11, 15, 20), types.DecisionCondor))
	suite.Equal(ReasonCloseCutoff, m.RejectReason(suite.at(11, 15, 21), types.DecisionCondor))
	suite.False(m.CanAdd(suite.at(11, 15, 45), types.DecisionPutSpread))
}

func (suite *RiskTestSuite) TestRolloverResetsDay() {
	m := suite.newManager(suite.cfg)
	day1 := suite.at(11, 10, 0)

	m.RegisterOpen(day1, types.DecisionCondor)
	m.RegisterClose(day1, types.DecisionPutSpread, decimal.NewFromInt(-600))
	suite.False(m.CanAdd(day1, types.DecisionCallSpread))

	day2 := suite.at(12, 10, 0)
	suite.True(m.CanAdd(day2, types.DecisionCondor))

	state := m.State()
	suite.True(state.Day.Equal(suite.cfg.TradingDay(day2)))
	suite.Equal(0, state.OpenPuts)
	suite.Equal(0, state.OpenCalls)
	suite.True(state.RealizedPnL.IsZero())
	suite.True(decimal.NewFromInt(500).Equal(state.DailyLossStop))
}

func (suite *RiskTestSuite) TestCanAddOrder() {
	m := suite.newManager(suite.cfg)
	ts := suite.at(11, 10, 0)

	suite.True(m.CanAddOrder(putSpread(ts, "2", "0.20", 1)))
	suite.False(m.CanAddOrder(putSpread(ts, "2", "0.20", 3)))

	m.RegisterClose(ts, types.DecisionPutSpread, decimal.NewFromInt(-400))
	suite.True(decimal.NewFromInt(100).Equal(m.RemainingBudget(ts)))
	suite.False(m.CanAddOrder(putSpread(ts, "2", "0.20", 1)))
	suite.True(m.CanAddOrder(putSpread(ts, "1", "0.10", 1)))
}

func (suite *RiskTestSuite) TestWorstCaseLoss() {
	tests := []struct {
		name     string
		order    types.SpreadOrder
		expected string
	}{
		{"one lot vertical", putSpread(time.Time{}, "2", "0.20", 1), "180"},
		{"three lots", putSpread(time.Time{}, "2", "0.20", 3), "540"},
		{"condor uses widest wing", types.SpreadOrder{Decision: types.DecisionCondor, Width: decimal.NewFromInt(3), NetCredit: decimal.RequireFromString("0.45"), Quantity: 2}, "510"},
		{"credit above width", putSpread(time.Time{}, "1", "1.10", 1), "0"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.True(decimal.RequireFromString(tc.expected).Equal(WorstCaseLoss(tc.order, 100)))
		})
	}
}

func (suite *RiskTestSuite) TestReverseFibonacciLadder() {
	policy := NewReverseFibonacciBudget([]decimal.Decimal{
		decimal.NewFromInt(500), decimal.NewFromInt(300), decimal.NewFromInt(200), decimal.NewFromInt(100),
	})

	steps := []struct {
		pnl      int64
		expected int64
	}{
		{-50, 300},
		{-10, 200},
		{-250, 100},
		{-1, 100},
		{20, 500},
		{-5, 300},
		{0, 500},
	}

	suite.True(decimal.NewFromInt(500).Equal(policy.Budget()))

	for _, step := range steps {
		policy.CloseDay(decimal.NewFromInt(step.pnl))
		suite.True(decimal.NewFromInt(step.expected).Equal(policy.Budget()), "after %d", step.pnl)
	}
}

func (suite *RiskTestSuite) TestManagerFollowsLadder() {
	cfg := suite.cfg
	cfg.Risk.BudgetPolicy = config.BudgetPolicyReverseFibonacci
	m := suite.newManager(cfg)

	m.RegisterClose(suite.at(11, 11, 0), types.DecisionPutSpread, decimal.NewFromInt(-50))
	suite.True(decimal.NewFromInt(300).Equal(m.RemainingBudget(suite.at(12, 10, 0))))

	m.RegisterClose(suite.at(12, 11, 0), types.DecisionPutSpread, decimal.NewFromInt(-301))
	suite.False(m.CanAdd(suite.at(12, 11, 15), types.DecisionCallSpread))

	suite.True(decimal.NewFromInt(200).Equal(m.RemainingBudget(suite.at(13, 10, 0))))
	suite.True(decimal.NewFromInt(500).Equal(m.RemainingBudget(suite.at(14, 10, 0))))
}

func (suite *RiskTestSuite) TestNewBudgetPolicy() {
	_, err := NewBudgetPolicy(config.RiskConfig{BudgetPolicy: "martingale"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewBudgetPolicy(config.RiskConfig{BudgetPolicy: config.BudgetPolicyReverseFibonacci})
	suite.Error(err)

	policy, err := NewBudgetPolicy(config.RiskConfig{BudgetPolicy: config.BudgetPolicyFixed, DailyLossStop: 750})
	suite.NoError(err)
	policy.CloseDay(decimal.NewFromInt(-700))
	suite.True(decimal.NewFromInt(750).Equal(policy.Budget()))
}

func (suite *RiskTestSuite) TestSizerContracts() {
	cfg := suite.cfg
	cfg.Risk.MaxContracts = 5
	order := putSpread(suite.at(11, 10, 0), "2", "0.20", 1)

	tests := []struct {
		name      string
		perTrade  float64
		remaining int64
		expected  int
	}{
		{"budget bound", 0, 500, 2},
		{"max contracts bound", 0, 5000, 5},
		{"per trade cap", 200, 500, 1},
		{"cap too small", 100, 500, 0},
		{"budget exhausted", 0, 0, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			c := cfg
			c.Risk.PerTradeMaxLoss = tc.perTrade
			sizer := NewSizer(c)
			suite.Equal(tc.expected, sizer.Contracts(order, decimal.NewFromInt(tc.remaining)))
		})
	}
}

func (suite *RiskTestSuite) TestSizerProbeOneLot() {
	cfg := suite.cfg
	cfg.Risk.PerTradeMaxLoss = 100
	order := putSpread(suite.at(11, 10, 0), "2", "0.20", 1)

	suite.False(NewSizer(cfg).ProbeOneLot(order, decimal.NewFromInt(500)))

	cfg.Risk.ProbeOneLot = true
	sizer := NewSizer(cfg)
	suite.True(sizer.ProbeOneLot(order, decimal.NewFromInt(500)))
	suite.False(sizer.ProbeOneLot(order, decimal.NewFromInt(150)))
}

func (suite *RiskTestSuite) TestSizerNarrowerWidths() {
	cfg := suite.cfg
	cfg.Spread.MinWidthPoints = 1
	cfg.Spread.WidthStepPoints = 1

	widths := NewSizer(cfg).NarrowerWidths(decimal.NewFromInt(3))
	suite.Len(widths, 2)
	suite.True(decimal.NewFromInt(2).Equal(widths[0]))
	suite.True(decimal.NewFromInt(1).Equal(widths[1]))

	suite.Empty(NewSizer(cfg).NarrowerWidths(decimal.NewFromInt(1)))
}
