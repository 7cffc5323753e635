package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SourceFiles names the parquet or CSV files of one data set.
//
//	bars:   time, open, high, low, close, volume
//	quotes: time, expiry, strike, right, bid, ask, mid, delta, iv
//	events: time, name
//
// Timestamps are read as UTC. Events is optional.
type SourceFiles struct {
	Bars   string `yaml:"bars" json:"bars"`
	Quotes string `yaml:"quotes" json:"quotes"`
	Events string `yaml:"events,omitempty" json:"events,omitempty"`
}

// DuckDBLoader reads a data set from files through DuckDB and materializes it in memory
// before a run starts.
type DuckDBLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader opens an in-memory DuckDB database.
func NewDuckDBLoader(log *logger.Logger) (*DuckDBLoader, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBLoader{
		db:     db,
		logger: log.Named("loader"),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Load reads the files, keeping bars and quotes within the optional [start, end] range.
func (l *DuckDBLoader) Load(files SourceFiles, loc *time.Location, start optional.Option[time.Time], end optional.Option[time.Time]) (*InMemoryDataSource, error) {
	if files.Bars == "" || files.Quotes == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "bars and quotes files are required")
	}

	if err := l.createView("bars", files.Bars); err != nil {
		return nil, err
	}

	if err := l.createView("quotes", files.Quotes); err != nil {
		return nil, err
	}

	bars, err := l.readBars(start, end)
	if err != nil {
		return nil, err
	}

	quotes, err := l.readQuotes(start, end)
	if err != nil {
		return nil, err
	}

	events := []types.EconEvent{}

	if files.Events != "" {
		if err := l.createView("events", files.Events); err != nil {
			return nil, err
		}

		events, err = l.readEvents()
		if err != nil {
			return nil, err
		}
	}

	l.logger.Info("Loaded data set",
		zap.Int("bars", len(bars)),
		zap.Int("quotes", len(quotes)),
		zap.Int("events", len(events)),
	)

	return NewInMemoryDataSource(loc, bars, quotes, events)
}

// Close releases the database.
func (l *DuckDBLoader) Close() error {
	if l.db != nil {
		return l.db.Close()
	}

	return nil
}

// createView maps a file onto a view. Squirrel has no CREATE VIEW so this is raw SQL.
func (l *DuckDBLoader) createView(name string, path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "%s file is not readable", name)
	}

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader = "read_csv_auto"
	}

	l.logger.Debug("Creating view", zap.String("view", name), zap.String("path", path))

	query := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM %s('%s');`, name, reader, strings.ReplaceAll(path, "'", "''"))
	if _, err := l.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read %s from %s", name, path)
	}

	return nil
}

// rangeFilter keeps rows with start <= time <= end. Bounds are compared in UTC like the
// stored timestamps. Callers pass an end already extended to the end of its day when
// needed (config.Config.RangeEnd).
func rangeFilter(start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.And {
	conditions := squirrel.And{}

	if start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": start.Unwrap().UTC()})
	}

	if end.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": end.Unwrap().UTC()})
	}

	return conditions
}

func (l *DuckDBLoader) readBars(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	query, args, err := l.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(rangeFilter(start, end)).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bars query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	result := make([]types.Bar, 0, 1024)

	for rows.Next() {
		var (
			timestamp                   time.Time
			open, high, low, closePrice float64
			volume                      float64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		result = append(result, types.Bar{
			Time:   timestamp.UTC(),
			Open:   decimal.NewFromFloat(open),
			High:   decimal.NewFromFloat(high),
			Low:    decimal.NewFromFloat(low),
			Close:  decimal.NewFromFloat(closePrice),
			Volume: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err)
	}

	return result, nil
}

func (l *DuckDBLoader) readQuotes(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.OptionQuote, error) {
	query, args, err := l.sq.
		Select("time", "expiry", "strike", "\"right\"", "bid", "ask", "mid", "delta", "iv").
		From("quotes").
		Where(rangeFilter(start, end)).
		OrderBy("time ASC", "strike ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build quotes query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query quotes", err)
	}
	defer rows.Close()

	result := make([]types.OptionQuote, 0, 4096)

	for rows.Next() {
		var (
			timestamp, expiry     time.Time
			strike, bid, ask, mid float64
			delta, iv             float64
			right                 string
		)

		if err := rows.Scan(&timestamp, &expiry, &strike, &right, &bid, &ask, &mid, &delta, &iv); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan quote", err)
		}

		parsed, err := parseRight(right)
		if err != nil {
			return nil, err
		}

		result = append(result, types.OptionQuote{
			Time:   timestamp.UTC(),
			Expiry: expiry,
			Strike: decimal.NewFromFloat(strike),
			Right:  parsed,
			Bid:    decimal.NewFromFloat(bid),
			Ask:    decimal.NewFromFloat(ask),
			Mid:    decimal.NewFromFloat(mid),
			Delta:  delta,
			IV:     iv,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating quotes", err)
	}

	return result, nil
}

func (l *DuckDBLoader) readEvents() ([]types.EconEvent, error) {
	query, args, err := l.sq.
		Select("time", "name").
		From("events").
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build events query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query events", err)
	}
	defer rows.Close()

	result := make([]types.EconEvent, 0)

	for rows.Next() {
		var event types.EconEvent
		if err := rows.Scan(&event.Time, &event.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan event", err)
		}

		event.Time = event.Time.UTC()
		result = append(result, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating events", err)
	}

	return result, nil
}

func parseRight(value string) (types.Right, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "C", "CALL":
		return types.RightCall, nil
	case "P", "PUT":
		return types.RightPut, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unknown option right %q", value)
	}
}
