package engine

import (
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the bars of a run are loaded.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, totalBars int) error

// OnRunEndCallback is called when a run ends, aborted or not. resultFolderPath is
// empty when no results folder is set.
type OnRunEndCallback func(runID string, report types.Report, resultFolderPath string)

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnTradeClosedCallback is called after a trade is appended to the ledger.
type OnTradeClosedCallback func(trade types.TradeResult)

// OnDayEndCallback is called after the terminal bar of every trading day.
type OnDayEndCallback func(day types.DayPnL)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnRunEnd      *OnRunEndCallback
	OnProcessData *OnProcessDataCallback
	OnTradeClosed *OnTradeClosedCallback
	OnDayEnd      *OnDayEndCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration content.
	Initialize(config string) error
	// SetDataSource sets the market, options and calendar data for the next run.
	SetDataSource(dataSource datasource.Provider) error
	// SetResultsFolder sets the output directory for report.yaml and trades.parquet.
	// An empty folder keeps results in memory only.
	SetResultsFolder(folder string) error
	// Run replays the loaded data once and returns the report. A data fault ends the run
	// early with an aborted report carrying the partial ledger, plus the error.
	Run(callbacks LifecycleCallbacks) (types.Report, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
