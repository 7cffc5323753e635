package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/odte-backtest/internal/version"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// Validate checks field constraints, then the relations between fields the tags cannot express.
func (c Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "config failed validation", err)
	}

	if c.loc == nil && loadLocation(c.Timezone) == nil {
		return errors.Newf(errors.ErrCodeInvalidTimezone, "unknown timezone %q", c.Timezone)
	}

	open, err := parseClock(c.SessionOpen)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid session_open", err)
	}

	closeAt, err := parseClock(c.SessionClose)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid session_close", err)
	}

	if open >= closeAt {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "session_open %s is not before session_close %s", c.SessionOpen, c.SessionClose)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidPeriod, "end_time is before start_time")
	}

	if c.Spread.CondorDelta.Min > c.Spread.CondorDelta.Max {
		return errors.New(errors.ErrCodeInvalidConfiguration, "condor_delta min exceeds max")
	}

	if c.Spread.SingleDelta.Min > c.Spread.SingleDelta.Max {
		return errors.New(errors.ErrCodeInvalidConfiguration, "single_delta min exceeds max")
	}

	s := c.Spread
	if s.MinWidthPoints > s.MaxWidthPoints {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "min_width_points %.2f exceeds max_width_points %.2f", s.MinWidthPoints, s.MaxWidthPoints)
	}

	if s.WidthPoints < s.MinWidthPoints || s.WidthPoints > s.MaxWidthPoints {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "width_points %.2f outside [%.2f, %.2f]", s.WidthPoints, s.MinWidthPoints, s.MaxWidthPoints)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.EngineVersion); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, fmt.Sprintf("engine_version %q is not supported", c.EngineVersion), err)
	}

	return nil
}
