// Package risk implements day-scoped admission control for new positions.
//
// The manager never returns errors. Every rejection is a boolean and the reason
// can be recomputed with RejectReason for logging.
package risk

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RiskManager interface {
	CanAdd(ts time.Time, decision types.DecisionType) bool
	RejectReason(ts time.Time, decision types.DecisionType) Reason
	CanAddOrder(order types.SpreadOrder) bool
	RemainingBudget(ts time.Time) decimal.Decimal
	RegisterOpen(ts time.Time, decision types.DecisionType)
	RegisterClose(ts time.Time, decision types.DecisionType, pnl decimal.Decimal)
	State() types.RiskState
}

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonDailyLossStop Reason = "daily_loss_stop"
	ReasonCloseCutoff   Reason = "too_close_to_close"
	ReasonPutSideFull   Reason = "put_side_full"
	ReasonCallSideFull  Reason = "call_side_full"
)

// Manager owns the RiskState of the current trading day.
type Manager struct {
	cfg     config.Config
	policy  BudgetPolicy
	state   types.RiskState
	started bool
	logger  *logger.Logger
}

func NewManager(cfg config.Config, policy BudgetPolicy, log *logger.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		policy: policy,
		logger: log.Named("risk"),
	}
}

// rollover resets the day when ts falls on a later trading day than the tracked one.
func (m *Manager) rollover(ts time.Time) {
	day := m.cfg.TradingDay(ts)

	if m.started && !day.After(m.state.Day) {
		return
	}

	if m.started {
		m.policy.CloseDay(m.state.RealizedPnL)
	}

	m.state = types.RiskState{
		Day:           day,
		RealizedPnL:   decimal.Zero,
		DailyLossStop: m.policy.Budget(),
	}
	m.started = true

	m.logger.Debug("New trading day",
		zap.Time("day", day),
		zap.String("daily_loss_stop", m.state.DailyLossStop.String()),
	)
}

// CanAdd reports whether a new position of the given decision type may be opened at ts.
func (m *Manager) CanAdd(ts time.Time, decision types.DecisionType) bool {
	return m.RejectReason(ts, decision) == ReasonNone
}

// RejectReason evaluates the CanAdd predicates in order and names the first that fails.
func (m *Manager) RejectReason(ts time.Time, decision types.DecisionType) Reason {
	m.rollover(ts)

	if decision == types.DecisionNoGo {
		return ReasonNone
	}

	if !m.state.RealizedPnL.GreaterThan(m.state.DailyLossStop.Neg()) {
		return ReasonDailyLossStop
	}

	if m.cfg.MinutesToClose(ts) < float64(m.cfg.Risk.NoNewRiskMinutesToClose) {
		return ReasonCloseCutoff
	}

	limit := m.cfg.Risk.MaxConcurrentPerSide

	if decision.UsesPutSide() && m.state.OpenPuts >= limit {
		return ReasonPutSideFull
	}

	if decision.UsesCallSide() && m.state.OpenCalls >= limit {
		return ReasonCallSideFull
	}

	return ReasonNone
}

// CanAddOrder reports whether the order's worst-case loss fits the remaining daily budget.
func (m *Manager) CanAddOrder(order types.SpreadOrder) bool {
	remaining := m.RemainingBudget(order.Timestamp)
	worst := WorstCaseLoss(order, m.cfg.ContractMultiplier)

	if worst.GreaterThan(remaining) {
		m.logger.Debug("Order exceeds remaining budget",
			zap.Time("time", order.Timestamp),
			zap.String("worst_case", worst.String()),
			zap.String("remaining", remaining.String()),
		)

		return false
	}

	return true
}

// RemainingBudget is today's loss stop plus today's realized P&L, floored at zero.
func (m *Manager) RemainingBudget(ts time.Time) decimal.Decimal {
	m.rollover(ts)

	return decimal.Max(decimal.Zero, m.state.DailyLossStop.Add(m.state.RealizedPnL))
}

func (m *Manager) RegisterOpen(ts time.Time, decision types.DecisionType) {
	m.rollover(ts)

	if decision.UsesPutSide() {
		m.state.OpenPuts++
	}

	if decision.UsesCallSide() {
		m.state.OpenCalls++
	}
}

// RegisterClose releases the position's side counters, floored at zero, and books pnl.
func (m *Manager) RegisterClose(ts time.Time, decision types.DecisionType, pnl decimal.Decimal) {
	m.rollover(ts)

	if decision.UsesPutSide() {
		m.state.OpenPuts = max(0, m.state.OpenPuts-1)
	}

	if decision.UsesCallSide() {
		m.state.OpenCalls = max(0, m.state.OpenCalls-1)
	}

	m.state.RealizedPnL = m.state.RealizedPnL.Add(pnl)
}

// State returns a copy of the current day's counters.
func (m *Manager) State() types.RiskState {
	return m.state
}

// WorstCaseLoss is (widest wing - total credit) x multiplier x quantity. For a condor
// only one side can finish in the money, so the widest wing bounds the loss.
func WorstCaseLoss(order types.SpreadOrder, multiplier int) decimal.Decimal {
	perUnit := order.Width.Sub(order.NetCredit)
	if perUnit.IsNegative() {
		perUnit = decimal.Zero
	}

	return perUnit.Mul(decimal.NewFromInt(int64(multiplier))).Mul(decimal.NewFromInt(int64(order.Quantity)))
}
