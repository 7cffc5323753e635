package risk

import (
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// BudgetPolicy supplies the daily loss stop. A policy carries state across days,
// so every run needs its own instance.
type BudgetPolicy interface {
	// Budget is the loss stop for the day about to start
	Budget() decimal.Decimal
	// CloseDay records the realized P&L of a finished day
	CloseDay(pnl decimal.Decimal)
}

// NewBudgetPolicy returns the policy selected by risk.budget_policy.
func NewBudgetPolicy(cfg config.RiskConfig) (BudgetPolicy, error) {
	switch cfg.BudgetPolicy {
	case config.BudgetPolicyFixed:
		return NewFixedBudget(decimal.NewFromFloat(cfg.DailyLossStop)), nil
	case config.BudgetPolicyReverseFibonacci:
		if len(cfg.ReverseFibonacciLadder) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "reverse_fibonacci_ladder is empty")
		}

		ladder := make([]decimal.Decimal, len(cfg.ReverseFibonacciLadder))
		for i, rung := range cfg.ReverseFibonacciLadder {
			ladder[i] = decimal.NewFromFloat(rung)
		}

		return NewReverseFibonacciBudget(ladder), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown budget policy %q", cfg.BudgetPolicy)
	}
}

// FixedBudget uses the same loss stop every day.
type FixedBudget struct {
	stop decimal.Decimal
}

func NewFixedBudget(stop decimal.Decimal) *FixedBudget {
	return &FixedBudget{stop: stop}
}

func (f *FixedBudget) Budget() decimal.Decimal {
	return f.stop
}

func (f *FixedBudget) CloseDay(decimal.Decimal) {}

// ReverseFibonacciBudget walks down a ladder such as 500/300/200/100.
// Each losing day moves one rung down, capped at the last rung.
// A winning or flat day goes back to the top.
type ReverseFibonacciBudget struct {
	ladder []decimal.Decimal
	rung   int
}

func NewReverseFibonacciBudget(ladder []decimal.Decimal) *ReverseFibonacciBudget {
	return &ReverseFibonacciBudget{ladder: ladder}
}

func (r *ReverseFibonacciBudget) Budget() decimal.Decimal {
	return r.ladder[r.rung]
}

func (r *ReverseFibonacciBudget) CloseDay(pnl decimal.Decimal) {
	if !pnl.IsNegative() {
		r.rung = 0

		return
	}

	r.rung = min(r.rung+1, len(r.ladder)-1)
}
