package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskState holds the per-trading-day risk counters.
// The risk manager owns it; everyone else only sees copies.
type RiskState struct {
	Day           time.Time       `yaml:"day" json:"day"`
	OpenPuts      int             `yaml:"open_puts" json:"open_puts"`
	OpenCalls     int             `yaml:"open_calls" json:"open_calls"`
	RealizedPnL   decimal.Decimal `yaml:"realized_pnl" json:"realized_pnl"`
	DailyLossStop decimal.Decimal `yaml:"daily_loss_stop" json:"daily_loss_stop"`
}
