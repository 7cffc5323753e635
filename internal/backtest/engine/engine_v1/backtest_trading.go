package engine

import (
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/execution"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/regime"
	"github.com/rxtech-lab/odte-backtest/internal/risk"
	"github.com/rxtech-lab/odte-backtest/internal/spread"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Components are the collaborators of one run. A run mutates all of them, so they
// must never be shared between runs.
type Components struct {
	Scorer    regime.RegimeScorer
	Builder   spread.SpreadBuilder
	Risk      risk.RiskManager
	Execution execution.ExecutionEngine
}

// ComponentsFactory builds a fresh set of components for a run.
type ComponentsFactory func(cfg config.Config, log *logger.Logger) (Components, error)

// NewComponents wires the configured scorer, builder, risk manager and execution engine.
func NewComponents(cfg config.Config, log *logger.Logger) (Components, error) {
	scorer, err := regime.New(cfg, log)
	if err != nil {
		return Components{}, err
	}

	policy, err := risk.NewBudgetPolicy(cfg.Risk)
	if err != nil {
		return Components{}, err
	}

	return Components{
		Scorer:    scorer,
		Builder:   spread.NewBuilder(cfg, log),
		Risk:      risk.NewManager(cfg, policy, log),
		Execution: execution.NewEngine(cfg, log),
	}, nil
}

// backtestRun is the step loop of one replay. It owns the open positions and the
// ledger of the run.
type backtestRun struct {
	runID     string
	cfg       config.Config
	provider  datasource.Provider
	scorer    regime.RegimeScorer
	builder   spread.SpreadBuilder
	risk      risk.RiskManager
	exec      execution.ExecutionEngine
	sizer     *risk.Sizer
	state     *BacktestState
	decisions *BacktestLog
	callbacks engine.LifecycleCallbacks
	log       *logger.Logger

	positions []types.OpenPosition
	trades    []types.TradeResult
	days      []types.DayPnL

	inDay     bool
	day       time.Time
	dayBudget decimal.Decimal
	dayPnL    decimal.Decimal
	dayTrades int
}

func newBacktestRun(runID string, cfg config.Config, provider datasource.Provider, components Components, state *BacktestState, decisions *BacktestLog, callbacks engine.LifecycleCallbacks, log *logger.Logger) *backtestRun {
	return &backtestRun{
		runID:     runID,
		cfg:       cfg,
		provider:  provider,
		scorer:    components.Scorer,
		builder:   components.Builder,
		risk:      components.Risk,
		exec:      components.Execution,
		sizer:     risk.NewSizer(cfg),
		state:     state,
		decisions: decisions,
		callbacks: callbacks,
		log:       log,
	}
}

// execute replays every eligible bar. Provider and callback faults end the run with an
// aborted report.
func (r *backtestRun) execute() (types.Report, error) {
	start, end := r.cfg.Window()

	bars, err := r.provider.GetBars(start, end)
	if err != nil {
		return r.abort(errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to load bars", err))
	}

	bars = r.eligible(bars)

	if r.callbacks.OnRunStart != nil {
		if err := (*r.callbacks.OnRunStart)(r.runID, len(bars)); err != nil {
			return r.abort(errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart callback failed", err))
		}
	}

	processed := 0

	for _, dayBars := range splitByDay(r.cfg, bars) {
		r.startDay(dayBars[0].Time)

		for i, bar := range dayBars {
			if err := r.step(bar, i == len(dayBars)-1); err != nil {
				return r.abort(err)
			}

			processed++

			if r.callbacks.OnProcessData != nil {
				if err := (*r.callbacks.OnProcessData)(processed, len(bars)); err != nil {
					return r.abort(errors.Wrap(errors.ErrCodeCallbackFailed, "OnProcessData callback failed", err))
				}
			}
		}

		r.endDay()
	}

	return BuildReport(r.cfg, r.runID, r.trades, r.days, types.RunStatusCompleted, ""), nil
}

func (r *backtestRun) eligible(bars []types.Bar) []types.Bar {
	if !r.cfg.RegularHoursOnly {
		return bars
	}

	filtered := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if r.cfg.InRegularHours(bar.Time) {
			filtered = append(filtered, bar)
		}
	}

	return filtered
}

// step runs exits, then the entry decision, on cadence bars. The last bar of a day
// closes whatever is still open.
func (r *backtestRun) step(bar types.Bar, terminal bool) error {
	if r.cfg.OnCadence(bar.Time) {
		if err := r.evaluateExits(bar.Time); err != nil {
			return err
		}

		if err := r.evaluateEntry(bar.Time); err != nil {
			return err
		}
	}

	if terminal {
		return r.forceClose(bar)
	}

	return nil
}

func (r *backtestRun) evaluateExits(ts time.Time) error {
	if len(r.positions) == 0 {
		return nil
	}

	quotes, err := r.provider.GetQuotesAt(ts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to load option quotes", err)
	}

	kept := make([]types.OpenPosition, 0, len(r.positions))

	for _, position := range r.positions {
		value, shortDelta, ok := execution.SpreadValue(position.Order, quotes)
		if !ok {
			r.log.Debug("Leg quote missing, holding position",
				zap.String("id", position.ID),
				zap.Time("time", ts),
			)

			kept = append(kept, position)

			continue
		}

		signal := r.exec.ShouldExit(position, value, shortDelta, ts)
		if !signal.Exit {
			kept = append(kept, position)

			continue
		}

		if err := r.close(position, ts, signal.Price, signal.Reason); err != nil {
			return err
		}
	}

	r.positions = kept

	return nil
}

func (r *backtestRun) evaluateEntry(ts time.Time) error {
	signal, err := r.scorer.Score(ts, r.provider, r.provider)
	if err != nil {
		return err
	}

	decision := Decide(signal)
	entry := DecisionEntry{
		Timestamp: ts,
		Score:     signal.Score,
		RegimeTag: signal.Reason,
		Decision:  decision,
	}

	if decision == types.DecisionNoGo {
		return r.logDecision(entry, OutcomeNoGo, "")
	}

	if !r.risk.CanAdd(ts, decision) {
		reason := r.risk.RejectReason(ts, decision)
		r.log.Debug("Risk rejected decision",
			zap.Time("time", ts),
			zap.String("decision", string(decision)),
			zap.String("reason", string(reason)),
		)

		return r.logDecision(entry, OutcomeRiskRejected, string(reason))
	}

	built, err := r.builder.TryBuild(ts, decision, r.provider, r.provider)
	if err != nil {
		return err
	}

	if built.IsNone() {
		return r.logDecision(entry, OutcomeNoOrder, "")
	}

	order, ok, err := r.size(ts, decision, built.Unwrap())
	if err != nil {
		return err
	}

	if !ok {
		return r.logDecision(entry, OutcomeSizedOut, "")
	}

	if !r.risk.CanAddOrder(order) {
		return r.logDecision(entry, OutcomeOverBudget, "")
	}

	position := r.exec.TryEnter(order)
	r.risk.RegisterOpen(ts, decision)
	r.positions = append(r.positions, position)

	r.log.Info("Opened position",
		zap.String("id", position.ID),
		zap.Time("time", ts),
		zap.String("decision", string(decision)),
		zap.Int("quantity", order.Quantity),
		zap.String("entry_price", position.EntryPrice.String()),
	)

	entry.PositionID = position.ID

	return r.logDecision(entry, OutcomeEntered, "")
}

// size picks the contract count. When nothing fits, narrower widths are tried if
// scale-to-fit is on, then a single lot if probe-one-lot allows it.
func (r *backtestRun) size(ts time.Time, decision types.DecisionType, order types.SpreadOrder) (types.SpreadOrder, bool, error) {
	remaining := r.risk.RemainingBudget(ts)

	qty := r.sizer.Contracts(order, remaining)

	if qty == 0 && r.sizer.ScaleToFit() {
		for _, width := range r.sizer.NarrowerWidths(order.Width) {
			narrower, err := r.builder.TryBuildWithWidth(ts, decision, r.provider, r.provider, width)
			if err != nil {
				return types.SpreadOrder{}, false, err
			}

			if narrower.IsNone() {
				continue
			}

			if fit := r.sizer.Contracts(narrower.Unwrap(), remaining); fit > 0 {
				order, qty = narrower.Unwrap(), fit

				break
			}
		}
	}

	if qty == 0 && r.sizer.ProbeOneLot(order, remaining) {
		qty = 1
	}

	if qty == 0 {
		return types.SpreadOrder{}, false, nil
	}

	return order.WithQuantity(qty), true, nil
}

// forceClose settles positions expiring today at intrinsic value and closes the rest
// at their live value.
func (r *backtestRun) forceClose(bar types.Bar) error {
	if len(r.positions) == 0 {
		return nil
	}

	var quotes []types.OptionQuote

	fetched := false

	for _, position := range r.positions {
		if types.SameDate(position.Order.Expiry, bar.Time, r.cfg.Location()) {
			price := execution.IntrinsicValue(position.Order, bar.Close)
			if err := r.close(position, bar.Time, price, types.ExitReasonPMSettlement); err != nil {
				return err
			}

			continue
		}

		if !fetched {
			var err error

			quotes, err = r.provider.GetQuotesAt(bar.Time)
			if err != nil {
				return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to load option quotes", err)
			}

			fetched = true
		}

		value, _, ok := execution.SpreadValue(position.Order, quotes)
		if !ok {
			value = execution.IntrinsicValue(position.Order, bar.Close)
		}

		if err := r.close(position, bar.Time, r.exec.BuyBackPrice(value), types.ExitReasonForcedClose); err != nil {
			return err
		}
	}

	r.positions = nil

	return nil
}

func (r *backtestRun) close(position types.OpenPosition, ts time.Time, price decimal.Decimal, reason types.ExitReason) error {
	result := r.exec.Exit(position, ts, price, reason)
	r.risk.RegisterClose(ts, position.Order.Decision, result.PnL)

	r.trades = append(r.trades, result)
	r.dayPnL = r.dayPnL.Add(result.PnL)
	r.dayTrades++

	r.log.Info("Closed position",
		zap.String("id", position.ID),
		zap.Time("time", ts),
		zap.String("reason", string(reason)),
		zap.String("pnl", result.PnL.String()),
	)

	if r.state != nil {
		if err := r.state.Record(result); err != nil {
			return err
		}
	}

	if r.callbacks.OnTradeClosed != nil {
		(*r.callbacks.OnTradeClosed)(result)
	}

	return nil
}

func (r *backtestRun) logDecision(entry DecisionEntry, outcome DecisionOutcome, detail string) error {
	if r.decisions == nil {
		return nil
	}

	state := r.risk.State()
	entry.Outcome = outcome
	entry.Detail = detail
	entry.OpenPuts = state.OpenPuts
	entry.OpenCalls = state.OpenCalls
	entry.RealizedPnL = state.RealizedPnL.String()

	if err := r.decisions.Log(entry); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to log decision", err)
	}

	return nil
}

// startDay rolls the risk manager onto the new day and remembers its loss stop.
func (r *backtestRun) startDay(ts time.Time) {
	r.inDay = true
	r.day = r.cfg.TradingDay(ts)
	r.dayPnL = decimal.Zero
	r.dayTrades = 0

	r.risk.RemainingBudget(ts)
	r.dayBudget = r.risk.State().DailyLossStop
}

func (r *backtestRun) endDay() {
	if !r.inDay {
		return
	}

	day := types.DayPnL{
		Date:   r.day,
		PnL:    types.RoundCents(r.dayPnL),
		Budget: r.dayBudget,
		Trades: r.dayTrades,
	}

	r.days = append(r.days, day)
	r.inDay = false

	r.log.Info("Trading day finished",
		zap.Time("day", day.Date),
		zap.String("pnl", day.PnL.String()),
		zap.Int("trades", day.Trades),
		zap.Bool("breached", day.Breached()),
	)

	if r.callbacks.OnDayEnd != nil {
		(*r.callbacks.OnDayEnd)(day)
	}
}

// abort keeps the partial ledger, including the day in progress, and reports the fault.
func (r *backtestRun) abort(cause error) (types.Report, error) {
	r.endDay()

	err := errors.Wrap(errors.ErrCodeBacktestAborted, "backtest aborted", cause)

	r.log.Error("Backtest aborted",
		zap.String("run_id", r.runID),
		zap.Int("trades", len(r.trades)),
		zap.Int("open_positions", len(r.positions)),
		zap.Error(cause),
	)

	return BuildReport(r.cfg, r.runID, r.trades, r.days, types.RunStatusAborted, cause.Error()), err
}

// splitByDay groups time-ordered bars by trading day.
func splitByDay(cfg config.Config, bars []types.Bar) [][]types.Bar {
	var days [][]types.Bar

	start := 0
	for i := 1; i <= len(bars); i++ {
		if i == len(bars) || !cfg.TradingDay(bars[i].Time).Equal(cfg.TradingDay(bars[start].Time)) {
			days = append(days, bars[start:i])
			start = i
		}
	}

	return days
}
