package engine

import (
	"path/filepath"

	"github.com/rxtech-lab/odte-backtest/internal/config"
)

// getResultFolder lays results out as <folder>/<underlying>_<start>_<end>/<runID>.
func getResultFolder(resultsFolder string, cfg config.Config, runID string) string {
	startTimeStr := "all"
	endTimeStr := "all"

	if cfg.StartTime.IsSome() {
		startTimeStr = cfg.StartTime.Unwrap().Format("20060102")
	}

	if cfg.EndTime.IsSome() {
		endTimeStr = cfg.EndTime.Unwrap().Format("20060102")
	}

	return filepath.Join(resultsFolder, cfg.Underlying+"_"+startTimeStr+"_"+endTimeStr, runID)
}
