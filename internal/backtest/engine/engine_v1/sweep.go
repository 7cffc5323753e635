package engine

import (
	"context"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepRun is one configuration of a parameter sweep. Providers are only read, so
// several runs may point at the same one.
type SweepRun struct {
	Name     string
	Config   config.Config
	Provider datasource.Provider
}

// SweepResult is the outcome of one SweepRun. Err is set when the run aborted.
type SweepResult struct {
	Name   string
	Report types.Report
	Err    error
}

// RunSweep executes independent runs concurrently, at most parallelism at a time
// (unbounded when parallelism <= 0). Every run gets its own engine and components.
// An aborted run is reported in its result. Engine setup failures and ctx
// cancellation stop the sweep. callbacks are shared and called from several goroutines.
func RunSweep(ctx context.Context, runs []SweepRun, parallelism int, callbacks engine.LifecycleCallbacks, log *logger.Logger) ([]SweepResult, error) {
	results := make([]SweepResult, len(runs))
	sweepLog := log.Named("sweep")

	group, groupCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		group.SetLimit(parallelism)
	}

	for i, run := range runs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			backtest, err := NewBacktestEngineV1WithConfig(run.Config, log.Named(run.Name))
			if err != nil {
				return errors.Wrapf(errors.ErrCodeSweepFailed, err, "failed to set up run %s", run.Name)
			}
			defer backtest.Close()

			if err := backtest.SetDataSource(run.Provider); err != nil {
				return errors.Wrapf(errors.ErrCodeSweepFailed, err, "failed to set data source for run %s", run.Name)
			}

			report, runErr := backtest.Run(callbacks)
			results[i] = SweepResult{Name: run.Name, Report: report, Err: runErr}

			sweepLog.Info("Sweep run finished",
				zap.String("run", run.Name),
				zap.String("status", string(report.Status)),
				zap.String("net_pnl", report.NetPnL.String()),
				zap.Int("trades", report.TradeCount()),
			)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	return results, nil
}
