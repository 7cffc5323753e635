package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BacktestEngineV1TestSuite struct {
	suite.Suite
	cfg    config.Config
	source *datasource.InMemoryDataSource
}

func TestBacktestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(BacktestEngineV1TestSuite))
}

func (suite *BacktestEngineV1TestSuite) SetupTest() {
	suite.cfg = config.Default()
	suite.cfg.LogLevel = "error"

	source, err := datasource.NewSyntheticGenerator(suite.cfg.Seed).Generate(datasource.DefaultSyntheticConfig(suite.cfg.Location()))
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *BacktestEngineV1TestSuite) newEngine(cfg config.Config) *BacktestEngineV1 {
	backtest, err := NewBacktestEngineV1WithConfig(cfg, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(backtest.SetDataSource(suite.source))
	suite.T().Cleanup(func() { backtest.Close() })

	return backtest
}

func (suite *BacktestEngineV1TestSuite) TestRunWithoutDataSource() {
	backtest, err := NewBacktestEngineV1WithConfig(suite.cfg, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer backtest.Close()

	_, err = backtest.Run(engine.LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoDatasource))
}

func (suite *BacktestEngineV1TestSuite) TestRunBeforeInitialize() {
	backtest := NewBacktestEngineV1()

	_, err := backtest.Run(engine.LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *BacktestEngineV1TestSuite) TestInitializeRejectsBadConfig() {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"newer engine version", "engine_version: v0.9.0\n", errors.ErrCodeInvalidVersion},
		{"other major", "engine_version: v1.0.0\n", errors.ErrCodeInvalidVersion},
		{"unknown classifier", "regime:\n  classifier: astrology\n", errors.ErrCodeInvalidConfiguration},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := NewBacktestEngineV1().Initialize(tc.content)
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}
}

func (suite *BacktestEngineV1TestSuite) TestInitializeFromYAML() {
	backtest := NewBacktestEngineV1()
	suite.Require().NoError(backtest.Initialize("underlying: SPX\nlog_level: error\nrisk:\n  budget_policy: reverse_fibonacci\n"))

	v1, ok := backtest.(*BacktestEngineV1)
	suite.Require().True(ok)
	defer v1.Close()

	suite.Equal("SPX", v1.Config().Underlying)
	suite.Equal(config.BudgetPolicyReverseFibonacci, v1.Config().Risk.BudgetPolicy)

	schema, err := backtest.GetConfigSchema()
	suite.NoError(err)
	suite.Contains(schema, "daily_loss_stop")
}

func (suite *BacktestEngineV1TestSuite) TestSyntheticRunCompletes() {
	var closed int
	onTrade := engine.OnTradeClosedCallback(func(types.TradeResult) { closed++ })

	var started int
	onStart := engine.OnRunStartCallback(func(runID string, totalBars int) error {
		suite.NotEmpty(runID)
		started = totalBars

		return nil
	})

	backtest := suite.newEngine(suite.cfg)
	report, err := backtest.Run(engine.LifecycleCallbacks{OnTradeClosed: &onTrade, OnRunStart: &onStart})
	suite.Require().NoError(err)

	suite.Equal(types.RunStatusCompleted, report.Status)
	suite.Len(report.Daily, 5)
	suite.Equal(5*390, started)
	suite.Equal(closed, report.TradeCount())

	count, err := backtest.Ledger().Count()
	suite.NoError(err)
	suite.Equal(report.TradeCount(), count)

	tick := decimal.NewFromFloat(suite.cfg.Slippage.TickValue)
	for _, trade := range report.Trades {
		suite.False(trade.Position.EntryPrice.LessThan(tick))
		suite.False(trade.ExitTime.Before(trade.Position.EntryTime))
		suite.True(types.SameDate(trade.ExitTime, trade.Position.EntryTime, suite.cfg.Location()))
	}

	entries, err := backtest.DecisionLog().GetEntries()
	suite.Require().NoError(err)
	suite.NotEmpty(entries)

	for _, entry := range entries {
		suite.LessOrEqual(entry.OpenPuts, suite.cfg.Risk.MaxConcurrentPerSide)
		suite.LessOrEqual(entry.OpenCalls, suite.cfg.Risk.MaxConcurrentPerSide)
	}
}

func (suite *BacktestEngineV1TestSuite) TestReplayIsDeterministic() {
	first, err := suite.newEngine(suite.cfg).Run(engine.LifecycleCallbacks{})
	suite.Require().NoError(err)

	// a fresh data set from the same seed
	source, err := datasource.NewSyntheticGenerator(suite.cfg.Seed).Generate(datasource.DefaultSyntheticConfig(suite.cfg.Location()))
	suite.Require().NoError(err)
	suite.source = source

	second, err := suite.newEngine(suite.cfg).Run(engine.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.NotEqual(first.RunID, second.RunID)
	suite.Equal(ledgerLines(first), ledgerLines(second))
	suite.Equal(dailyLines(first), dailyLines(second))
	suite.Equal(first.NetPnL.String(), second.NetPnL.String())
}

func ledgerLines(report types.Report) []string {
	lines := make([]string, 0, len(report.Trades))
	for _, trade := range report.Trades {
		lines = append(lines, fmt.Sprintf("%s %s %s %s %s %s",
			trade.Position.ID,
			trade.Position.EntryTime.UTC().Format(time.RFC3339),
			trade.Position.EntryPrice,
			trade.ExitTime.UTC().Format(time.RFC3339),
			trade.PnL,
			trade.Reason,
		))
	}

	return lines
}

func dailyLines(report types.Report) []string {
	lines := make([]string, 0, len(report.Daily))
	for _, day := range report.Daily {
		lines = append(lines, fmt.Sprintf("%s %s %d", day.Date.Format("2006-01-02"), day.PnL, day.Trades))
	}

	return lines
}

func (suite *BacktestEngineV1TestSuite) TestWritesResults() {
	dir := suite.T().TempDir()

	var folder string
	onEnd := engine.OnRunEndCallback(func(runID string, report types.Report, resultFolderPath string) {
		folder = resultFolderPath
	})

	backtest := suite.newEngine(suite.cfg)
	suite.Require().NoError(backtest.SetResultsFolder(dir))

	report, err := backtest.Run(engine.LifecycleCallbacks{OnRunEnd: &onEnd})
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(dir, "XSP_all_all", report.RunID), folder)

	for _, name := range []string{"report.yaml", "trades.parquet", "decisions.parquet"} {
		_, err := os.Stat(filepath.Join(folder, name))
		suite.NoError(err, name)
	}
}

func (suite *BacktestEngineV1TestSuite) TestDateRangeLimitsDays() {
	cfg := suite.cfg.WithRange(
		suite.cfg.TradingDay(datasource.DefaultSyntheticConfig(suite.cfg.Location()).StartDate).AddDate(0, 0, 1),
		suite.cfg.TradingDay(datasource.DefaultSyntheticConfig(suite.cfg.Location()).StartDate).AddDate(0, 0, 2),
	)

	report, err := suite.newEngine(cfg).Run(engine.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Len(report.Daily, 2)
}

func (suite *BacktestEngineV1TestSuite) TestEmptyDataSource() {
	empty, err := datasource.NewInMemoryDataSource(suite.cfg.Location(), nil, nil, nil)
	suite.Require().NoError(err)
	suite.source = empty

	report, err := suite.newEngine(suite.cfg).Run(engine.LifecycleCallbacks{})
	suite.NoError(err)
	suite.Equal(types.RunStatusCompleted, report.Status)
	suite.Empty(report.Trades)
	suite.True(report.NetPnL.IsZero())
}
