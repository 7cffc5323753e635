package datasource

import (
	"slices"
	"sort"
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// InMemoryDataSource holds a fully loaded data set. It is read-only after construction
// and safe to share between concurrent runs.
type InMemoryDataSource struct {
	loc       *time.Location
	bars      []types.Bar
	snapshots []time.Time
	quotes    map[int64][]types.OptionQuote
	events    []types.EconEvent
}

// NewInMemoryDataSource indexes bars, quotes and events. Bars must be strictly increasing in time.
// Quote expiries are normalized to midnight in loc.
func NewInMemoryDataSource(loc *time.Location, bars []types.Bar, quotes []types.OptionQuote, events []types.EconEvent) (*InMemoryDataSource, error) {
	if loc == nil {
		loc = time.UTC
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeDataOutOfOrder, "bar %d at %s is not after %s", i, bars[i].Time, bars[i-1].Time)
		}
	}

	d := &InMemoryDataSource{
		loc:    loc,
		bars:   slices.Clone(bars),
		quotes: make(map[int64][]types.OptionQuote),
		events: slices.Clone(events),
	}

	for _, q := range quotes {
		q.Expiry = types.AsDate(q.Expiry, loc)
		key := q.Time.UnixNano()

		if _, ok := d.quotes[key]; !ok {
			d.snapshots = append(d.snapshots, q.Time)
		}

		d.quotes[key] = append(d.quotes[key], q)
	}

	sort.Slice(d.snapshots, func(i, j int) bool { return d.snapshots[i].Before(d.snapshots[j]) })
	sort.SliceStable(d.events, func(i, j int) bool { return d.events[i].Time.Before(d.events[j].Time) })

	return d, nil
}

// GetBars implements MarketData.
func (d *InMemoryDataSource) GetBars(start time.Time, end time.Time) ([]types.Bar, error) {
	from := sort.Search(len(d.bars), func(i int) bool { return !d.bars[i].Time.Before(start) })
	to := sort.Search(len(d.bars), func(i int) bool { return d.bars[i].Time.After(end) })

	if from >= to {
		return []types.Bar{}, nil
	}

	return slices.Clone(d.bars[from:to]), nil
}

// GetSpot implements MarketData.
func (d *InMemoryDataSource) GetSpot(ts time.Time) (decimal.Decimal, error) {
	idx := sort.Search(len(d.bars), func(i int) bool { return d.bars[i].Time.After(ts) }) - 1
	if idx < 0 || !types.SameDate(d.bars[idx].Time, ts, d.loc) {
		return decimal.Zero, nil
	}

	return d.bars[idx].Close, nil
}

// TodayExpiry implements OptionsData. Every session trades its own 0DTE expiry.
func (d *InMemoryDataSource) TodayExpiry(ts time.Time) (time.Time, error) {
	return types.DateOf(ts, d.loc), nil
}

// GetQuotesAt implements OptionsData.
func (d *InMemoryDataSource) GetQuotesAt(ts time.Time) ([]types.OptionQuote, error) {
	idx := sort.Search(len(d.snapshots), func(i int) bool { return d.snapshots[i].After(ts) }) - 1
	if idx < 0 || !types.SameDate(d.snapshots[idx], ts, d.loc) {
		return []types.OptionQuote{}, nil
	}

	return slices.Clone(d.quotes[d.snapshots[idx].UnixNano()]), nil
}

// GetEvents implements EconCalendar.
func (d *InMemoryDataSource) GetEvents(start time.Time, end time.Time) ([]types.EconEvent, error) {
	events := make([]types.EconEvent, 0)

	for _, e := range d.events {
		if e.Time.Before(start) {
			continue
		}

		if e.Time.After(end) {
			break
		}

		events = append(events, e)
	}

	return events, nil
}

// Count returns the number of bars, quotes and events held.
func (d *InMemoryDataSource) Count() (bars int, quotes int, events int) {
	for _, q := range d.quotes {
		quotes += len(q)
	}

	return len(d.bars), quotes, len(d.events)
}
