package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"go.uber.org/zap"
)

// DecisionOutcome is what became of a decision step.
type DecisionOutcome string

const (
	OutcomeEntered      DecisionOutcome = "entered"
	OutcomeNoGo         DecisionOutcome = "no_go"
	OutcomeRiskRejected DecisionOutcome = "risk_rejected"
	OutcomeNoOrder      DecisionOutcome = "no_order"
	OutcomeSizedOut     DecisionOutcome = "sized_out"
	OutcomeOverBudget   DecisionOutcome = "over_budget"
)

// DecisionEntry is one row of the decision log.
type DecisionEntry struct {
	Timestamp   time.Time
	Score       int
	RegimeTag   string
	Decision    types.DecisionType
	Outcome     DecisionOutcome
	Detail      string
	PositionID  string
	OpenPuts    int
	OpenCalls   int
	RealizedPnL string
}

// BacktestLog records every decision step of a run in a DuckDB table.
type BacktestLog struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewBacktestLog creates a new instance of BacktestLog.
func NewBacktestLog(log *logger.Logger) (*BacktestLog, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	decisionLog := &BacktestLog{
		db:     db,
		logger: log.Named("decision_log"),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := decisionLog.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return decisionLog, nil
}

// Log records a decision entry.
func (l *BacktestLog) Log(entry DecisionEntry) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("backtest log or database is nil")
	}

	var nextID int

	err := l.db.QueryRow("SELECT nextval('decision_id_seq')").Scan(&nextID)
	if err != nil {
		return fmt.Errorf("failed to get next ID from sequence: %w", err)
	}

	insertQuery := l.sq.
		Insert("decisions").
		Columns(
			"id", "timestamp", "score", "regime", "decision", "outcome", "detail",
			"position_id", "open_puts", "open_calls", "realized_pnl",
		).
		Values(
			nextID, entry.Timestamp.UTC(), entry.Score, entry.RegimeTag, string(entry.Decision),
			string(entry.Outcome), entry.Detail, entry.PositionID, entry.OpenPuts, entry.OpenCalls,
			entry.RealizedPnL,
		).
		RunWith(l.db)

	if _, err = insertQuery.Exec(); err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}

	return nil
}

// GetEntries returns all recorded decisions in order.
func (l *BacktestLog) GetEntries() ([]DecisionEntry, error) {
	if l == nil || l.db == nil {
		return nil, fmt.Errorf("backtest log or database is nil")
	}

	selectQuery := l.sq.
		Select(
			"timestamp", "score", "regime", "decision", "outcome", "detail",
			"position_id", "open_puts", "open_calls", "realized_pnl",
		).
		From("decisions").
		OrderBy("id ASC").
		RunWith(l.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var entries []DecisionEntry

	for rows.Next() {
		var entry DecisionEntry

		var decision, outcome string

		err := rows.Scan(
			&entry.Timestamp,
			&entry.Score,
			&entry.RegimeTag,
			&decision,
			&outcome,
			&entry.Detail,
			&entry.PositionID,
			&entry.OpenPuts,
			&entry.OpenCalls,
			&entry.RealizedPnL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		entry.Decision = types.DecisionType(decision)
		entry.Outcome = DecisionOutcome(outcome)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decisions: %w", err)
	}

	return entries, nil
}

// CountByOutcome tallies the log per outcome.
func (l *BacktestLog) CountByOutcome() (map[DecisionOutcome]int, error) {
	rows, err := l.sq.
		Select("outcome", "COUNT(*)").
		From("decisions").
		GroupBy("outcome").
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}
	defer rows.Close()

	counts := make(map[DecisionOutcome]int)

	for rows.Next() {
		var outcome string

		var count int

		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan decision count: %w", err)
		}

		counts[DecisionOutcome(outcome)] = count
	}

	return counts, rows.Err()
}

// Write saves the decisions to a Parquet file in the specified directory.
func (l *BacktestLog) Write(path string) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("backtest log or database is nil")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	decisionsPath := filepath.Join(path, "decisions.parquet")

	_, err := l.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM decisions ORDER BY id) TO '%s' (FORMAT PARQUET)`, decisionsPath))
	if err != nil {
		return fmt.Errorf("failed to export decisions to Parquet: %w", err)
	}

	l.logger.Info("Exported decision log",
		zap.String("decisions", decisionsPath),
	)

	return nil
}

// Cleanup resets the database state.
func (l *BacktestLog) Cleanup() error {
	if l == nil || l.db == nil {
		return fmt.Errorf("backtest log or database is nil")
	}

	_, err := l.db.Exec(`
		DROP TABLE IF EXISTS decisions;
		DROP SEQUENCE IF EXISTS decision_id_seq;
	`)
	if err != nil {
		return fmt.Errorf("failed to cleanup decisions table: %w", err)
	}

	return l.initialize()
}

// Close closes the database connection.
func (l *BacktestLog) Close() error {
	if l == nil || l.db == nil {
		return nil
	}

	return l.db.Close()
}

func (l *BacktestLog) initialize() error {
	_, err := l.db.Exec(`CREATE SEQUENCE IF NOT EXISTS decision_id_seq`)
	if err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}

	_, err = l.db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY,
			timestamp TIMESTAMP,
			score INTEGER,
			regime TEXT,
			decision TEXT,
			outcome TEXT,
			detail TEXT,
			position_id TEXT,
			open_puts INTEGER,
			open_calls INTEGER,
			realized_pnl TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create decisions table: %w", err)
	}

	return nil
}
