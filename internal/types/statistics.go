package types

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RunStatus tells a completed run apart from one that stopped on a data fault.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// DayPnL is one point of the daily P&L series.
type DayPnL struct {
	Date time.Time       `yaml:"date" json:"date"`
	PnL  decimal.Decimal `yaml:"pnl" json:"pnl"`
	// Budget is the daily loss stop that was in force on Date.
	Budget decimal.Decimal `yaml:"budget" json:"budget"`
	Trades int             `yaml:"trades" json:"trades"`
}

// Breached reports whether the day lost more than its budget.
func (d DayPnL) Breached() bool {
	return d.PnL.IsNegative() && d.PnL.Abs().GreaterThan(d.Budget)
}

// SlippageStress is the ledger re-priced with an extra per-contract penalty.
type SlippageStress struct {
	PenaltyPerContract decimal.Decimal `yaml:"penalty_per_contract" json:"penalty_per_contract"`
	NetPnL             decimal.Decimal `yaml:"net_pnl" json:"net_pnl"`
	ProfitFactor       float64         `yaml:"profit_factor" json:"profit_factor"`
}

// Report is the outcome of one backtest run.
type Report struct {
	RunID         string    `yaml:"run_id" json:"run_id"`
	EngineVersion string    `yaml:"engine_version" json:"engine_version"`
	Underlying    string    `yaml:"underlying" json:"underlying"`
	Status        RunStatus `yaml:"status" json:"status"`
	// AbortReason is empty unless Status is aborted.
	AbortReason string `yaml:"abort_reason,omitempty" json:"abort_reason,omitempty"`

	Trades []TradeResult `yaml:"trades" json:"trades"`
	Daily  []DayPnL      `yaml:"daily" json:"daily"`

	NetPnL         decimal.Decimal  `yaml:"net_pnl" json:"net_pnl"`
	TotalFees      decimal.Decimal  `yaml:"total_fees" json:"total_fees"`
	Wins           int              `yaml:"wins" json:"wins"`
	Losses         int              `yaml:"losses" json:"losses"`
	WinRate        float64          `yaml:"win_rate" json:"win_rate"`
	ProfitFactor   float64          `yaml:"profit_factor" json:"profit_factor"`
	Sharpe         float64          `yaml:"sharpe" json:"sharpe"`
	MaxDrawdown    decimal.Decimal  `yaml:"max_drawdown" json:"max_drawdown"`
	BudgetBreaches int              `yaml:"budget_breaches" json:"budget_breaches"`
	Stress         []SlippageStress `yaml:"slippage_stress" json:"slippage_stress"`
}

// TradeCount is the number of closed trades in the ledger.
func (r Report) TradeCount() int {
	return len(r.Trades)
}

// Aborted reports whether the run stopped early on a data fault.
func (r Report) Aborted() bool {
	return r.Status == RunStatusAborted
}

// WriteReport writes the report as YAML.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to file: %w", err)
	}

	return nil
}
