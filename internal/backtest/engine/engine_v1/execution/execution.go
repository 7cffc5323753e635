// Package execution simulates fills for credit spreads: slippage on entry and exit,
// the two-stage stop and the realized P&L of a closed position.
package execution

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ExecutionEngine interface {
	// TryEnter fills the order at its net credit less entry slippage. It never fails.
	TryEnter(order types.SpreadOrder) types.OpenPosition
	// ShouldExit runs the price stop, then the delta stop.
	ShouldExit(position types.OpenPosition, value decimal.Decimal, shortDelta float64, ts time.Time) types.ExitSignal
	// BuyBackPrice is the slippage-adjusted cost to close at the given spread value
	BuyBackPrice(value decimal.Decimal) decimal.Decimal
	// Exit closes the position at price and books fees and P&L.
	Exit(position types.OpenPosition, ts time.Time, price decimal.Decimal, reason types.ExitReason) types.TradeResult
}

// positionNamespace seeds the name-based position ids so replays produce the same ids.
var positionNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("odte-backtest/position"))

type Engine struct {
	tick          decimal.Decimal
	entrySlippage decimal.Decimal
	exitSlippage  decimal.Decimal
	creditMult    decimal.Decimal
	creditTag     string
	deltaBreach   float64
	deltaTag      string
	multiplier    decimal.Decimal
	fee           commission_fee.CommissionFee
	sequence      int
	logger        *logger.Logger
}

func NewEngine(cfg config.Config, log *logger.Logger) *Engine {
	tick := decimal.NewFromFloat(cfg.Slippage.TickValue)

	return &Engine{
		tick:          tick,
		entrySlippage: decimal.NewFromFloat(cfg.Slippage.EntryHalfSpreadTicks).Mul(tick),
		exitSlippage:  decimal.NewFromFloat(cfg.Slippage.ExitHalfSpreadTicks).Mul(tick),
		creditMult:    decimal.NewFromFloat(cfg.Stops.CreditMultiple),
		creditTag:     strconv.FormatFloat(cfg.Stops.CreditMultiple, 'f', -1, 64),
		deltaBreach:   cfg.Stops.DeltaBreach,
		deltaTag:      strconv.FormatFloat(cfg.Stops.DeltaBreach, 'f', -1, 64),
		multiplier:    decimal.NewFromInt(int64(cfg.ContractMultiplier)),
		fee:           commission_fee.GetCommissionFeeHandler(cfg.Fees),
		logger:        log.Named("execution"),
	}
}

// PriceStopReason is the exit reason of a credit-multiple stop.
func PriceStopReason(multiple string) types.ExitReason {
	return types.ExitReason("stop_credit_x" + multiple)
}

// DeltaStopReason is the exit reason of a short-delta stop.
func DeltaStopReason(breach string) types.ExitReason {
	return types.ExitReason("stop_delta_" + breach)
}

func (e *Engine) TryEnter(order types.SpreadOrder) types.OpenPosition {
	entry := types.MaxDecimal(e.tick, order.NetCredit.Sub(e.entrySlippage))
	fees := types.RoundCents(e.fee.Calculate(order.LegCount() * order.Quantity))

	e.sequence++
	id := uuid.NewSHA1(positionNamespace, []byte(fmt.Sprintf("%s|%s|%s|%d",
		order.Underlying, order.Decision, order.Timestamp.UTC().Format(time.RFC3339Nano), e.sequence)))

	e.logger.Debug("Entered position",
		zap.String("id", id.String()),
		zap.String("decision", string(order.Decision)),
		zap.Time("time", order.Timestamp),
		zap.String("credit", order.NetCredit.String()),
		zap.String("entry_price", entry.String()),
		zap.Int("quantity", order.Quantity),
	)

	return types.OpenPosition{
		ID:         id.String(),
		Order:      order,
		EntryPrice: entry,
		EntryTime:  order.Timestamp,
		EntryFees:  fees,
	}
}

func (e *Engine) ShouldExit(position types.OpenPosition, value decimal.Decimal, shortDelta float64, ts time.Time) types.ExitSignal {
	if value.GreaterThanOrEqual(position.EntryPrice.Mul(e.creditMult)) {
		return types.ExitSignal{Exit: true, Price: e.BuyBackPrice(value), Reason: PriceStopReason(e.creditTag)}
	}

	if shortDelta < 0 {
		shortDelta = -shortDelta
	}

	if shortDelta >= e.deltaBreach {
		return types.ExitSignal{Exit: true, Price: e.BuyBackPrice(value), Reason: DeltaStopReason(e.deltaTag)}
	}

	return types.NoExit()
}

func (e *Engine) BuyBackPrice(value decimal.Decimal) decimal.Decimal {
	return value.Add(e.exitSlippage)
}

// Exit books (entry - exit) x multiplier x quantity less fees. A settlement has no
// exit fill, so only the entry fees are charged.
func (e *Engine) Exit(position types.OpenPosition, ts time.Time, price decimal.Decimal, reason types.ExitReason) types.TradeResult {
	qty := position.Order.Quantity

	fees := position.EntryFees
	if reason != types.ExitReasonPMSettlement {
		fees = fees.Add(types.RoundCents(e.fee.Calculate(position.Order.LegCount() * qty)))
	}

	gross := position.EntryPrice.Sub(price).Mul(e.multiplier).Mul(decimal.NewFromInt(int64(qty)))
	pnl := types.RoundCents(gross.Sub(fees))

	e.logger.Debug("Closed position",
		zap.String("id", position.ID),
		zap.Time("time", ts),
		zap.String("reason", string(reason)),
		zap.String("exit_price", price.String()),
		zap.String("pnl", pnl.String()),
	)

	return types.TradeResult{
		Position:  position,
		ExitTime:  ts,
		ExitPrice: price,
		PnL:       pnl,
		Fees:      types.RoundCents(fees),
		Reason:    reason,
	}
}
