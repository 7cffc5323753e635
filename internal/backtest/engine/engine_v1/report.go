package engine

import (
	"math"

	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/internal/version"
	"github.com/shopspring/decimal"
)

const tradingDaysPerYear = 252

// stressPenalties are the extra per-contract slippage figures the ledger is re-priced with.
var stressPenalties = []string{"0.05", "0.10"}

// BuildReport reduces the ledger and the daily series into a Report. trades must be in
// ledger order and days in calendar order.
func BuildReport(cfg config.Config, runID string, trades []types.TradeResult, days []types.DayPnL, status types.RunStatus, abortReason string) types.Report {
	if trades == nil {
		trades = []types.TradeResult{}
	}

	if days == nil {
		days = []types.DayPnL{}
	}

	report := types.Report{
		RunID:         runID,
		EngineVersion: version.GetVersion(),
		Underlying:    cfg.Underlying,
		Status:        status,
		AbortReason:   abortReason,
		Trades:        trades,
		Daily:         days,
		NetPnL:        decimal.Zero,
		TotalFees:     decimal.Zero,
	}

	grossWin := decimal.Zero
	grossLoss := decimal.Zero

	for _, trade := range trades {
		report.NetPnL = report.NetPnL.Add(trade.PnL)
		report.TotalFees = report.TotalFees.Add(trade.Fees)

		switch {
		case trade.IsWin():
			report.Wins++
			grossWin = grossWin.Add(trade.PnL)
		case trade.PnL.IsNegative():
			report.Losses++
			grossLoss = grossLoss.Add(trade.PnL.Abs())
		}
	}

	if len(trades) > 0 {
		report.WinRate = float64(report.Wins) / float64(len(trades))
	}

	report.ProfitFactor = profitFactor(grossWin, grossLoss)
	report.Sharpe = sharpe(days, decimal.NewFromFloat(cfg.InitialCapital))
	report.MaxDrawdown = maxDrawdown(days)

	for _, day := range days {
		if day.Breached() {
			report.BudgetBreaches++
		}
	}

	multiplier := decimal.NewFromInt(int64(cfg.ContractMultiplier))
	for _, penalty := range stressPenalties {
		report.Stress = append(report.Stress, slippageStress(trades, decimal.RequireFromString(penalty), multiplier))
	}

	return report
}

// profitFactor is gross win / gross loss, rounded to two places. It is 0 when there
// are no losing trades.
func profitFactor(grossWin, grossLoss decimal.Decimal) float64 {
	if !grossLoss.IsPositive() {
		return 0
	}

	return grossWin.Div(grossLoss).Round(2).InexactFloat64()
}

// sharpe annualizes mean/stddev of daily returns on capital. The sample deviation
// is used, and fewer than two days or a flat series give 0.
func sharpe(days []types.DayPnL, capital decimal.Decimal) float64 {
	if len(days) < 2 || !capital.IsPositive() {
		return 0
	}

	returns := make([]float64, len(days))
	mean := 0.0

	for i, day := range days {
		returns[i] = day.PnL.Div(capital).InexactFloat64()
		mean += returns[i]
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is the largest peak-to-trough drop of cumulative daily P&L, with the
// curve starting at 0.
func maxDrawdown(days []types.DayPnL) decimal.Decimal {
	equity := decimal.Zero
	peak := decimal.Zero
	drawdown := decimal.Zero

	for _, day := range days {
		equity = equity.Add(day.PnL)
		peak = types.MaxDecimal(peak, equity)
		drawdown = types.MaxDecimal(drawdown, peak.Sub(equity))
	}

	return drawdown
}

// slippageStress charges every trade penalty x quantity x multiplier more and
// recomputes net P&L and profit factor.
func slippageStress(trades []types.TradeResult, penalty, multiplier decimal.Decimal) types.SlippageStress {
	net := decimal.Zero
	grossWin := decimal.Zero
	grossLoss := decimal.Zero

	for _, trade := range trades {
		charge := penalty.Mul(decimal.NewFromInt(int64(trade.Contracts()))).Mul(multiplier)
		pnl := trade.PnL.Sub(charge)
		net = net.Add(pnl)

		if pnl.IsPositive() {
			grossWin = grossWin.Add(pnl)
		} else if pnl.IsNegative() {
			grossLoss = grossLoss.Add(pnl.Abs())
		}
	}

	return types.SlippageStress{
		PenaltyPerContract: penalty,
		NetPnL:             types.RoundCents(net),
		ProfitFactor:       profitFactor(grossWin, grossLoss),
	}
}
