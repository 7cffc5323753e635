package config

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
)

// openEnd bounds range queries when no end time is configured.
var openEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Location returns the session timezone, falling back to UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	if c.loc != nil {
		return c.loc
	}

	if loc := loadLocation(c.Timezone); loc != nil {
		return loc
	}

	return time.UTC
}

// TradingDay is the session date of ts at local midnight.
func (c Config) TradingDay(ts time.Time) time.Time {
	local := ts.In(c.Location())

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location())
}

// SessionBounds returns the regular session open and close on the trading day of ts.
func (c Config) SessionBounds(ts time.Time) (open time.Time, closeAt time.Time) {
	return c.atClock(ts, c.SessionOpen), c.atClock(ts, c.SessionClose)
}

// atClock builds a wall-clock time on the trading day of ts so DST days keep 09:30 at 09:30.
func (c Config) atClock(ts time.Time, clock string) time.Time {
	day := c.TradingDay(ts)
	offset, _ := parseClock(clock)
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, c.Location())
}

// InRegularHours reports open <= ts < close.
func (c Config) InRegularHours(ts time.Time) bool {
	open, closeAt := c.SessionBounds(ts)

	return !ts.Before(open) && ts.Before(closeAt)
}

// OnCadence reports whether ts lands on the decision grid. The grid is anchored
// at the session open, or at local midnight for bars before the open.
func (c Config) OnCadence(ts time.Time) bool {
	cadence := time.Duration(c.DecisionCadenceSeconds) * time.Second
	if cadence <= 0 {
		return true
	}

	anchor, _ := c.SessionBounds(ts)
	if ts.Before(anchor) {
		anchor = c.TradingDay(ts)
	}

	return ts.Sub(anchor)%cadence == 0
}

// MinutesToClose is the time remaining until session close. Negative after the close.
func (c Config) MinutesToClose(ts time.Time) float64 {
	_, closeAt := c.SessionBounds(ts)

	return closeAt.Sub(ts).Minutes()
}

// RangeEnd is the inclusive end of the configured range. An end at local midnight
// covers that whole trading day.
func (c Config) RangeEnd() optional.Option[time.Time] {
	if c.EndTime.IsNone() {
		return optional.None[time.Time]()
	}

	end := c.EndTime.Unwrap()
	if day := c.TradingDay(end); end.Equal(day) {
		end = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return optional.Some(end)
}

// Window is the [start, end] range every data read of a run uses. Missing bounds
// are open.
func (c Config) Window() (time.Time, time.Time) {
	start := time.Time{}
	if c.StartTime.IsSome() {
		start = c.StartTime.Unwrap()
	}

	end := openEnd
	if rangeEnd := c.RangeEnd(); rangeEnd.IsSome() {
		end = rangeEnd.Unwrap()
	}

	return start, end
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q: %w", value, err)
	}

	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
