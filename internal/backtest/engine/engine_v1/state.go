package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState is the trade ledger of one run, kept in an in-memory DuckDB table
// so it can be queried and exported to parquet. Money columns are DECIMAL and are
// bound and read back as strings to stay exact.
type BacktestState struct {
	db       *sql.DB
	logger   *logger.Logger
	sq       squirrel.StatementBuilderType
	sequence int
}

// LedgerRow is the flattened form of a TradeResult as stored in the trades table.
type LedgerRow struct {
	Sequence     int
	PositionID   string
	Underlying   string
	Decision     types.DecisionType
	EntryTime    time.Time
	ExitTime     time.Time
	ShortStrikes string
	LongStrikes  string
	Width        decimal.Decimal
	NetCredit    decimal.Decimal
	Quantity     int
	EntryPrice   decimal.Decimal
	ExitPrice    decimal.Decimal
	Fees         decimal.Decimal
	PnL          decimal.Decimal
	Reason       types.ExitReason
}

// LedgerSummary aggregates the trades table.
type LedgerSummary struct {
	Trades         int
	Wins           int
	Losses         int
	NetPnL         decimal.Decimal
	TotalFees      decimal.Decimal
	AvgHoldMinutes float64
}

func NewBacktestState(log *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to open ledger database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to connect to ledger database", err)
	}

	state := &BacktestState{
		db:     db,
		logger: log.Named("ledger"),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := state.Initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return state, nil
}

// Initialize creates the trades table.
func (b *BacktestState) Initialize() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			seq INTEGER PRIMARY KEY,
			position_id TEXT,
			underlying TEXT,
			decision TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			short_strikes TEXT,
			long_strikes TEXT,
			width DECIMAL(18,4),
			net_credit DECIMAL(18,4),
			quantity INTEGER,
			entry_price DECIMAL(18,4),
			exit_price DECIMAL(18,4),
			fees DECIMAL(18,2),
			pnl DECIMAL(18,2),
			reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to create trades table", err)
	}

	return nil
}

// Record appends a closed trade.
func (b *BacktestState) Record(trade types.TradeResult) error {
	order := trade.Position.Order

	insertQuery := b.sq.
		Insert("trades").
		Columns(
			"seq", "position_id", "underlying", "decision", "entry_time", "exit_time",
			"short_strikes", "long_strikes", "width", "net_credit", "quantity",
			"entry_price", "exit_price", "fees", "pnl", "reason",
		).
		Values(
			b.sequence+1, trade.Position.ID, order.Underlying, string(order.Decision),
			trade.Position.EntryTime.UTC(), trade.ExitTime.UTC(),
			legString(order.ShortLegs()), legString(order.LongLegs()),
			order.Width.String(), order.NetCredit.String(), order.Quantity,
			trade.Position.EntryPrice.String(), trade.ExitPrice.String(),
			trade.Fees.String(), trade.PnL.String(), string(trade.Reason),
		).
		RunWith(b.db)

	if _, err := insertQuery.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to insert trade", err)
	}

	b.sequence++

	return nil
}

// Count returns the number of recorded trades.
func (b *BacktestState) Count() (int, error) {
	var count int

	err := b.sq.Select("COUNT(*)").From("trades").RunWith(b.db).QueryRow().Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}

	return count, nil
}

// GetAllTrades returns the ledger in insertion order.
func (b *BacktestState) GetAllTrades() ([]LedgerRow, error) {
	selectQuery := b.sq.
		Select(
			"seq", "position_id", "underlying", "decision", "entry_time", "exit_time",
			"short_strikes", "long_strikes", "CAST(width AS VARCHAR)", "CAST(net_credit AS VARCHAR)", "quantity",
			"CAST(entry_price AS VARCHAR)", "CAST(exit_price AS VARCHAR)",
			"CAST(fees AS VARCHAR)", "CAST(pnl AS VARCHAR)", "reason",
		).
		From("trades").
		OrderBy("seq ASC").
		RunWith(b.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []LedgerRow

	for rows.Next() {
		var row LedgerRow

		var decision, reason string

		var width, credit, entry, exit, fees, pnl string

		err := rows.Scan(
			&row.Sequence, &row.PositionID, &row.Underlying, &decision, &row.EntryTime, &row.ExitTime,
			&row.ShortStrikes, &row.LongStrikes, &width, &credit, &row.Quantity,
			&entry, &exit, &fees, &pnl, &reason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		row.Decision = types.DecisionType(decision)
		row.Reason = types.ExitReason(reason)
		row.Width = decimal.RequireFromString(width)
		row.NetCredit = decimal.RequireFromString(credit)
		row.EntryPrice = decimal.RequireFromString(entry)
		row.ExitPrice = decimal.RequireFromString(exit)
		row.Fees = decimal.RequireFromString(fees)
		row.PnL = decimal.RequireFromString(pnl)

		trades = append(trades, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// GetTradeSummary aggregates the ledger in SQL.
func (b *BacktestState) GetTradeSummary() (LedgerSummary, error) {
	// Using raw SQL for the aggregate - Squirrel adds nothing for a single-table rollup
	query := `
		SELECT
			COUNT(*),
			CAST(COALESCE(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END), 0) AS BIGINT),
			CAST(COALESCE(SUM(CASE WHEN pnl < 0 THEN 1 ELSE 0 END), 0) AS BIGINT),
			CAST(COALESCE(SUM(pnl), 0) AS VARCHAR),
			CAST(COALESCE(SUM(fees), 0) AS VARCHAR),
			CAST(COALESCE(AVG(EXTRACT(EPOCH FROM (exit_time - entry_time)) / 60), 0) AS DOUBLE)
		FROM trades
	`

	var summary LedgerSummary

	var net, fees string

	err := b.db.QueryRow(query).Scan(
		&summary.Trades,
		&summary.Wins,
		&summary.Losses,
		&net,
		&fees,
		&summary.AvgHoldMinutes,
	)
	if err != nil {
		return LedgerSummary{}, fmt.Errorf("failed to summarize trades: %w", err)
	}

	summary.NetPnL = decimal.RequireFromString(net)
	summary.TotalFees = decimal.RequireFromString(fees)

	return summary, nil
}

// Write exports the ledger to trades.parquet in the given directory.
func (b *BacktestState) Write(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to create directory", err)
	}

	// Using raw SQL as Squirrel doesn't support COPY
	tradesPath := filepath.Join(path, "trades.parquet")

	_, err := b.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM trades ORDER BY seq) TO '%s' (FORMAT PARQUET)`, tradesPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to export trades to parquet", err)
	}

	b.logger.Info("Exported trade ledger",
		zap.String("trades", tradesPath),
	)

	return nil
}

// Cleanup drops the ledger and starts a fresh one.
func (b *BacktestState) Cleanup() error {
	if _, err := b.db.Exec(`DROP TABLE IF EXISTS trades`); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to drop trades table", err)
	}

	b.sequence = 0

	return b.Initialize()
}

// Close closes the database connection.
func (b *BacktestState) Close() error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Close()
}

// legString renders legs as "495P/505C".
func legString(legs []types.SpreadLeg) string {
	parts := make([]string, 0, len(legs))
	for _, leg := range legs {
		parts = append(parts, leg.Strike.String()+string(leg.Right))
	}

	return strings.Join(parts, "/")
}
