package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	content, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := config.Parse(content)
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	source, err := loadData(cmd, cfg, log)
	if err != nil {
		return err
	}

	backtester := enginev1.NewBacktestEngineV1()
	if err := backtester.Initialize(string(content)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if closer, ok := backtester.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if err := backtester.SetDataSource(source); err != nil {
		return fmt.Errorf("failed to set data source: %w", err)
	}

	if err := backtester.SetResultsFolder(cmd.String("results")); err != nil {
		return fmt.Errorf("failed to set results folder: %w", err)
	}

	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(runID string, totalBars int) error {
		bar = progressbar.NewOptions(totalBars,
			progressbar.OptionSetDescription(fmt.Sprintf("Replaying %s", cfg.Underlying)),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar == nil {
			return nil
		}

		return bar.Set(current)
	})
	onRunEnd := engine.OnRunEndCallback(func(runID string, report types.Report, resultFolderPath string) {
		if bar != nil {
			_ = bar.Finish()
		}

		if resultFolderPath != "" {
			fmt.Printf("\nResults written to %s\n", resultFolderPath)
		}
	})

	report, err := backtester.Run(engine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnProcessData: &onProcessData,
		OnRunEnd:      &onRunEnd,
	})
	printSummary(cmd.String("config"), report)

	return err
}

func sweepAction(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.StringSlice("config")
	runs := make([]enginev1.SweepRun, 0, len(paths))

	for _, path := range paths {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		runs = append(runs, enginev1.SweepRun{
			Name:   filepath.Base(path),
			Config: cfg,
		})
	}

	log, err := logger.NewLoggerWithLevel(runs[0].Config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	// every run replays the same data set, loaded with the first run's timezone and range
	source, err := loadData(cmd, runs[0].Config, log)
	if err != nil {
		return err
	}

	for i := range runs {
		runs[i].Provider = source
	}

	var mu sync.Mutex

	done := 0
	onRunEnd := engine.OnRunEndCallback(func(runID string, report types.Report, resultFolderPath string) {
		mu.Lock()
		defer mu.Unlock()

		done++
		fmt.Printf("[%d/%d] run %s %s\n", done, len(runs), runID, report.Status)
	})

	results, err := enginev1.RunSweep(ctx, runs, int(cmd.Int("parallelism")), engine.LifecycleCallbacks{OnRunEnd: &onRunEnd}, log)
	if err != nil {
		return err
	}

	for _, result := range results {
		printSummary(result.Name, result.Report)

		if result.Err != nil {
			fmt.Printf("  error: %v\n", result.Err)
		}
	}

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	cfg := config.Default()

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaName := "backtest-config.json"
	schemaPath := filepath.Join(output, schemaName)
	samplePath := filepath.Join(output, "backtest-config.yaml")

	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	log.Printf("Schema written to %s", schemaPath)

	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		sample, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		sample = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), sample...)

		if err := os.WriteFile(samplePath, sample, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}

		log.Printf("Sample config written to %s", samplePath)
	}

	return nil
}

func loadData(cmd *cli.Command, cfg config.Config, log *logger.Logger) (datasource.Provider, error) {
	if cmd.Bool("synthetic") {
		synthetic := datasource.DefaultSyntheticConfig(cfg.Location())
		synthetic.Days = int(cmd.Int("days"))

		source, err := datasource.NewSyntheticGenerator(cfg.Seed).Generate(synthetic)
		if err != nil {
			return nil, err
		}

		return source, nil
	}

	loader, err := datasource.NewDuckDBLoader(log)
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	source, err := loader.Load(datasource.SourceFiles{
		Bars:   cmd.String("bars"),
		Quotes: cmd.String("quotes"),
		Events: cmd.String("events"),
	}, cfg.Location(), cfg.StartTime, cfg.RangeEnd())
	if err != nil {
		return nil, err
	}

	return source, nil
}

func printSummary(name string, report types.Report) {
	fmt.Printf("%s: %s, %d trades, net %s, win rate %.1f%%, profit factor %.2f, sharpe %.2f, max drawdown %s\n",
		name,
		report.Status,
		report.TradeCount(),
		report.NetPnL.StringFixed(2),
		report.WinRate*100,
		report.ProfitFactor,
		report.Sharpe,
		report.MaxDrawdown.StringFixed(2),
	)
}
