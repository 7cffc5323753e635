package risk

import (
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// Sizer turns a one-lot order into a contract count that fits the risk allowance.
type Sizer struct {
	multiplier   int
	maxContracts int
	perTradeCap  decimal.Decimal
	minWidth     decimal.Decimal
	widthStep    decimal.Decimal
	scaleToFit   bool
	probeOneLot  bool
}

func NewSizer(cfg config.Config) *Sizer {
	return &Sizer{
		multiplier:   cfg.ContractMultiplier,
		maxContracts: cfg.Risk.MaxContracts,
		perTradeCap:  decimal.NewFromFloat(cfg.Risk.PerTradeMaxLoss),
		minWidth:     decimal.NewFromFloat(cfg.Spread.MinWidthPoints),
		widthStep:    decimal.NewFromFloat(cfg.Spread.WidthStepPoints),
		scaleToFit:   cfg.Risk.ScaleToFit,
		probeOneLot:  cfg.Risk.ProbeOneLot,
	}
}

// Contracts is min(max_contracts, floor(allowance / per-contract worst-case loss)), where the
// allowance is the remaining daily budget capped by per_trade_max_loss when that is set.
func (s *Sizer) Contracts(order types.SpreadOrder, remaining decimal.Decimal) int {
	perContract := WorstCaseLoss(order.WithQuantity(1), s.multiplier)

	allowance := remaining
	if s.perTradeCap.IsPositive() && s.perTradeCap.LessThan(allowance) {
		allowance = s.perTradeCap
	}

	if !perContract.IsPositive() {
		if allowance.IsNegative() {
			return 0
		}

		return s.maxContracts
	}

	fit := allowance.Div(perContract).Floor().IntPart()

	return int(min(int64(s.maxContracts), max(fit, 0)))
}

// ScaleToFit reports whether narrower widths should be tried when nothing fits.
func (s *Sizer) ScaleToFit() bool {
	return s.scaleToFit
}

// NarrowerWidths lists the widths below width, one step at a time, down to min_width_points.
func (s *Sizer) NarrowerWidths(width decimal.Decimal) []decimal.Decimal {
	var widths []decimal.Decimal

	if !s.widthStep.IsPositive() {
		return widths
	}

	for w := width.Sub(s.widthStep); w.GreaterThanOrEqual(s.minWidth); w = w.Sub(s.widthStep) {
		widths = append(widths, w)
	}

	return widths
}

// ProbeOneLot reports whether a single contract may be taken when sizing yields zero
// because of the per-trade cap. The one lot must still fit the remaining daily budget.
func (s *Sizer) ProbeOneLot(order types.SpreadOrder, remaining decimal.Decimal) bool {
	if !s.probeOneLot {
		return false
	}

	return !WorstCaseLoss(order.WithQuantity(1), s.multiplier).GreaterThan(remaining)
}
