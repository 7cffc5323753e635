package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExitReason tags why a position was closed.
type ExitReason string

const (
	// ExitReasonPMSettlement is the cash settlement of positions expiring today.
	ExitReasonPMSettlement ExitReason = "pm_settlement"
	// ExitReasonForcedClose is the end-of-day close of positions that do not expire today.
	ExitReasonForcedClose ExitReason = "forced_close"
)

// OpenPosition is a filled spread order. Only the execution engine creates one.
type OpenPosition struct {
	ID         string          `yaml:"id" json:"id"`
	Order      SpreadOrder     `yaml:"order" json:"order"`
	EntryPrice decimal.Decimal `yaml:"entry_price" json:"entry_price"`
	EntryTime  time.Time       `yaml:"entry_time" json:"entry_time"`
	EntryFees  decimal.Decimal `yaml:"entry_fees" json:"entry_fees"`
}

// ExitSignal is the result of a stop evaluation.
type ExitSignal struct {
	Exit   bool
	Price  decimal.Decimal
	Reason ExitReason
}

// NoExit is the zero exit signal.
func NoExit() ExitSignal {
	return ExitSignal{Exit: false, Price: decimal.Zero, Reason: ""}
}

// TradeResult is a closed position. Immutable once appended to the ledger.
type TradeResult struct {
	Position  OpenPosition    `yaml:"position" json:"position"`
	ExitTime  time.Time       `yaml:"exit_time" json:"exit_time"`
	ExitPrice decimal.Decimal `yaml:"exit_price" json:"exit_price"`
	// PnL is realized dollars net of Fees.
	PnL    decimal.Decimal `yaml:"pnl" json:"pnl"`
	Fees   decimal.Decimal `yaml:"fees" json:"fees"`
	Reason ExitReason      `yaml:"reason" json:"reason"`
}

// IsWin reports whether the trade made money after fees.
func (t TradeResult) IsWin() bool {
	return t.PnL.IsPositive()
}

// Contracts is the number of structures traded.
func (t TradeResult) Contracts() int {
	return t.Position.Order.Quantity
}
