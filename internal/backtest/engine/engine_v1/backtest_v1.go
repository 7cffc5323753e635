package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"go.uber.org/zap"
)

type BacktestEngineV1 struct {
	config        config.Config
	initialized   bool
	log           *logger.Logger
	datasource    datasource.Provider
	resultsFolder string
	components    ComponentsFactory
	state         *BacktestState
	decisionLog   *BacktestLog
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        config.Default(),
		initialized:   false,
		log:           nil,
		datasource:    nil,
		resultsFolder: "",
		components:    NewComponents,
		state:         nil,
		decisionLog:   nil,
	}
}

// NewBacktestEngineV1WithConfig returns an engine that is already initialized with cfg.
func NewBacktestEngineV1WithConfig(cfg config.Config, log *logger.Logger) (*BacktestEngineV1, error) {
	b := &BacktestEngineV1{
		components: NewComponents,
	}

	if err := b.initializeWith(cfg, log); err != nil {
		return nil, err
	}

	return b, nil
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(content string) error {
	cfg, err := config.Parse([]byte(content))
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	return b.initializeWith(cfg, log)
}

func (b *BacktestEngineV1) initializeWith(cfg config.Config, log *logger.Logger) error {
	b.config = cfg
	b.log = log.Named("backtest")

	if b.components == nil {
		b.components = NewComponents
	}

	// components are built per run, this only surfaces configuration errors early
	if _, err := b.components(cfg, b.log); err != nil {
		return err
	}

	var err error

	if b.state == nil {
		b.state, err = NewBacktestState(b.log)
		if err != nil {
			return fmt.Errorf("failed to create backtest state: %w", err)
		}
	}

	if b.decisionLog == nil {
		b.decisionLog, err = NewBacktestLog(b.log)
		if err != nil {
			return fmt.Errorf("failed to create decision log: %w", err)
		}
	}

	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.String("underlying", cfg.Underlying),
		zap.String("classifier", string(cfg.Regime.Classifier)),
		zap.String("budget_policy", string(cfg.Risk.BudgetPolicy)),
	)

	return nil
}

// SetComponentsFactory replaces how each run builds its collaborators.
func (b *BacktestEngineV1) SetComponentsFactory(factory ComponentsFactory) {
	b.components = factory
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.Provider) error {
	b.datasource = dataSource

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// Config returns the configuration the engine was initialized with.
func (b *BacktestEngineV1) Config() config.Config {
	return b.config
}

// DecisionLog exposes the decision log of the last run.
func (b *BacktestEngineV1) DecisionLog() *BacktestLog {
	return b.decisionLog
}

// Ledger exposes the trade ledger of the last run.
func (b *BacktestEngineV1) Ledger() *BacktestState {
	return b.state
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(callbacks engine.LifecycleCallbacks) (types.Report, error) {
	if err := b.preRunCheck(); err != nil {
		return types.Report{}, err
	}

	runID := uuid.New().String()

	if err := b.cleanUpRun(); err != nil {
		return types.Report{}, err
	}

	components, err := b.components(b.config, b.log)
	if err != nil {
		return types.Report{}, err
	}

	b.log.Info("Running backtest",
		zap.String("run_id", runID),
		zap.String("underlying", b.config.Underlying),
	)

	run := newBacktestRun(runID, b.config, b.datasource, components, b.state, b.decisionLog, callbacks, b.log)
	report, runErr := run.execute()

	resultFolderPath := ""

	if b.resultsFolder != "" {
		resultFolderPath = getResultFolder(b.resultsFolder, b.config, runID)
		if err := b.writeResults(resultFolderPath, report); err != nil {
			b.log.Error("Failed to write results",
				zap.String("folder", resultFolderPath),
				zap.Error(err),
			)

			if runErr == nil {
				runErr = err
			}
		}
	}

	if summary, err := b.state.GetTradeSummary(); err == nil {
		b.log.Info("Backtest finished",
			zap.String("run_id", runID),
			zap.String("status", string(report.Status)),
			zap.Int("trades", summary.Trades),
			zap.String("net_pnl", summary.NetPnL.String()),
			zap.Float64("avg_hold_minutes", summary.AvgHoldMinutes),
		)
	}

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(runID, report, resultFolderPath)
	}

	return report, runErr
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	cfg := b.config

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Close releases the DuckDB handles.
func (b *BacktestEngineV1) Close() error {
	if err := b.decisionLog.Close(); err != nil {
		return err
	}

	return b.state.Close()
}

func (b *BacktestEngineV1) writeResults(resultFolderPath string, report types.Report) error {
	if err := os.MkdirAll(resultFolderPath, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to create results folder", err)
	}

	if err := types.WriteReport(filepath.Join(resultFolderPath, "report.yaml"), report); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to write report", err)
	}

	if err := b.state.Write(resultFolderPath); err != nil {
		return err
	}

	if err := b.decisionLog.Write(resultFolderPath); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to write decision log", err)
	}

	return nil
}

func (b *BacktestEngineV1) cleanUpRun() error {
	if err := b.state.Cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup state: %w", err)
	}

	if err := b.decisionLog.Cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup decision log: %w", err)
	}

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeInvalidConfiguration, "engine is not initialized")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}
