package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type BacktestLogTestSuite struct {
	suite.Suite
	log *BacktestLog
}

func TestBacktestLogSuite(t *testing.T) {
	suite.Run(t, new(BacktestLogTestSuite))
}

func (suite *BacktestLogTestSuite) SetupTest() {
	decisionLog, err := NewBacktestLog(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.log = decisionLog
}

func (suite *BacktestLogTestSuite) TearDownTest() {
	suite.NoError(suite.log.Close())
}

func (suite *BacktestLogTestSuite) TestLogAndRead() {
	entries := []DecisionEntry{
		{Timestamp: testTime, Score: 1, RegimeTag: "calm", Decision: types.DecisionCondor, Outcome: OutcomeEntered, PositionID: "p-1", OpenPuts: 1, OpenCalls: 1, RealizedPnL: "0"},
		{Timestamp: testTime, Score: -10, RegimeTag: "event_blackout", Decision: types.DecisionNoGo, Outcome: OutcomeNoGo, RealizedPnL: "0"},
		{Timestamp: testTime, Score: 2, RegimeTag: "trend_up", Decision: types.DecisionPutSpread, Outcome: OutcomeRiskRejected, Detail: "put_side_full", RealizedPnL: "-12.5"},
	}

	for _, entry := range entries {
		suite.Require().NoError(suite.log.Log(entry))
	}

	got, err := suite.log.GetEntries()
	suite.Require().NoError(err)
	suite.Require().Len(got, 3)

	suite.Equal(OutcomeEntered, got[0].Outcome)
	suite.Equal("p-1", got[0].PositionID)
	suite.True(got[0].Timestamp.Equal(testTime))
	suite.Equal(types.DecisionNoGo, got[1].Decision)
	suite.Equal("put_side_full", got[2].Detail)
	suite.Equal("-12.5", got[2].RealizedPnL)

	counts, err := suite.log.CountByOutcome()
	suite.NoError(err)
	suite.Equal(1, counts[OutcomeEntered])
	suite.Equal(1, counts[OutcomeNoGo])
	suite.Equal(1, counts[OutcomeRiskRejected])
}

func (suite *BacktestLogTestSuite) TestCleanupAndWrite() {
	suite.Require().NoError(suite.log.Log(DecisionEntry{Timestamp: testTime, Outcome: OutcomeNoGo}))
	suite.Require().NoError(suite.log.Cleanup())

	got, err := suite.log.GetEntries()
	suite.NoError(err)
	suite.Empty(got)

	suite.Require().NoError(suite.log.Log(DecisionEntry{Timestamp: testTime, Outcome: OutcomeNoOrder}))

	dir := suite.T().TempDir()
	suite.Require().NoError(suite.log.Write(dir))

	_, err = os.Stat(filepath.Join(dir, "decisions.parquet"))
	suite.NoError(err)
}

func (suite *BacktestLogTestSuite) TestNilLog() {
	var empty *BacktestLog

	suite.Error(empty.Log(DecisionEntry{}))
	suite.NoError(empty.Close())
}
