package config

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	// Embedded zone database so America/New_York resolves on minimal hosts.
	_ "time/tzdata"
)

type Classifier string

const (
	ClassifierOpeningRange Classifier = "opening_range"
	ClassifierNeutral      Classifier = "neutral"
)

type BudgetPolicy string

const (
	BudgetPolicyFixed            BudgetPolicy = "fixed"
	BudgetPolicyReverseFibonacci BudgetPolicy = "reverse_fibonacci"
)

type Broker string

const (
	BrokerPerContract Broker = "per_contract"
	BrokerZero        Broker = "zero_commission"
)

// Config is the immutable run configuration. Every component receives it by value.
type Config struct {
	Underlying string `yaml:"underlying" json:"underlying" jsonschema:"title=Underlying,description=Underlying symbol the chain is quoted on" validate:"required"`
	// StartTime and EndTime bound the bar range. Both optional.
	StartTime optional.Option[time.Time] `yaml:"-" json:"start_time,omitempty" jsonschema:"title=Start Time,description=Optional start of the backtest range"`
	EndTime   optional.Option[time.Time] `yaml:"-" json:"end_time,omitempty" jsonschema:"title=End Time,description=Optional end of the backtest range"`

	DecisionCadenceSeconds int     `yaml:"decision_cadence_seconds" json:"decision_cadence_seconds" jsonschema:"title=Decision Cadence,description=Seconds between decision steps,minimum=1" validate:"gt=0"`
	RegularHoursOnly       bool    `yaml:"regular_hours_only" json:"regular_hours_only" jsonschema:"title=Regular Hours Only,description=Skip bars outside the regular session"`
	Timezone               string  `yaml:"timezone" json:"timezone" jsonschema:"title=Timezone,description=IANA zone of the exchange session" validate:"required"`
	SessionOpen            string  `yaml:"session_open" json:"session_open" jsonschema:"title=Session Open,description=Regular session open as HH:MM" validate:"required,datetime=15:04"`
	SessionClose           string  `yaml:"session_close" json:"session_close" jsonschema:"title=Session Close,description=Regular session close as HH:MM" validate:"required,datetime=15:04"`
	Seed                   int64   `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Seed for every random source used by the run"`
	InitialCapital         float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Account size used to turn daily P&L into returns,minimum=0" validate:"gt=0"`
	ContractMultiplier     int     `yaml:"contract_multiplier" json:"contract_multiplier" jsonschema:"title=Contract Multiplier,description=Dollars per option point" validate:"gt=0"`
	LogLevel               string  `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"oneof=debug info warn error"`
	// EngineVersion pins the engine version the file was written for. Empty means unpinned.
	EngineVersion string `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Engine version this config targets"`

	Regime   RegimeConfig   `yaml:"regime" json:"regime"`
	Spread   SpreadConfig   `yaml:"spread" json:"spread"`
	Slippage SlippageConfig `yaml:"slippage" json:"slippage"`
	Stops    StopConfig     `yaml:"stops" json:"stops"`
	Risk     RiskConfig     `yaml:"risk" json:"risk"`
	Fees     FeeConfig      `yaml:"fees" json:"fees"`

	loc *time.Location
}

type RegimeConfig struct {
	Classifier                 Classifier `yaml:"classifier" json:"classifier" jsonschema:"title=Classifier,enum=opening_range,enum=neutral" validate:"oneof=opening_range neutral"`
	OpeningRangeMinutes        int        `yaml:"opening_range_minutes" json:"opening_range_minutes" jsonschema:"minimum=1" validate:"gt=0"`
	VWAPWindow                 int        `yaml:"vwap_window" json:"vwap_window" jsonschema:"minimum=1" validate:"gt=0"`
	ATRPeriod                  int        `yaml:"atr_period" json:"atr_period" jsonschema:"minimum=1" validate:"gt=0"`
	EventBlackoutBeforeMinutes int        `yaml:"event_blackout_before_minutes" json:"event_blackout_before_minutes" jsonschema:"minimum=0" validate:"gte=0"`
	EventBlackoutAfterMinutes  int        `yaml:"event_blackout_after_minutes" json:"event_blackout_after_minutes" jsonschema:"minimum=0" validate:"gte=0"`
}

type DeltaBand struct {
	Min float64 `yaml:"min" json:"min" jsonschema:"minimum=0,maximum=1" validate:"gte=0,lte=1"`
	Max float64 `yaml:"max" json:"max" jsonschema:"minimum=0,maximum=1" validate:"gte=0,lte=1"`
}

// Target is the midpoint of the band.
func (b DeltaBand) Target() float64 {
	return (b.Min + b.Max) / 2
}

// Contains reports whether |delta| lies inside the band.
func (b DeltaBand) Contains(absDelta float64) bool {
	return absDelta >= b.Min && absDelta <= b.Max
}

type MinCreditPerWidth struct {
	// Condor applies to the combined credit over the wider side.
	Condor float64 `yaml:"condor" json:"condor" validate:"gte=0"`
	// CondorSide applies to each vertical of a condor on its own.
	CondorSide float64 `yaml:"condor_side" json:"condor_side" validate:"gte=0"`
	PutSpread  float64 `yaml:"put_spread" json:"put_spread" validate:"gte=0"`
	CallSpread float64 `yaml:"call_spread" json:"call_spread" validate:"gte=0"`
}

type SpreadConfig struct {
	CondorDelta       DeltaBand         `yaml:"condor_delta" json:"condor_delta"`
	SingleDelta       DeltaBand         `yaml:"single_delta" json:"single_delta"`
	WidthPoints       float64           `yaml:"width_points" json:"width_points" validate:"gt=0"`
	MinWidthPoints    float64           `yaml:"min_width_points" json:"min_width_points" validate:"gt=0"`
	MaxWidthPoints    float64           `yaml:"max_width_points" json:"max_width_points" validate:"gt=0"`
	WidthStepPoints   float64           `yaml:"width_step_points" json:"width_step_points" validate:"gt=0"`
	MinCreditPerWidth MinCreditPerWidth `yaml:"min_credit_per_width" json:"min_credit_per_width"`
}

type SlippageConfig struct {
	EntryHalfSpreadTicks float64 `yaml:"entry_half_spread_ticks" json:"entry_half_spread_ticks" validate:"gte=0"`
	ExitHalfSpreadTicks  float64 `yaml:"exit_half_spread_ticks" json:"exit_half_spread_ticks" validate:"gte=0"`
	TickValue            float64 `yaml:"tick_value" json:"tick_value" validate:"gt=0"`
	// MaxSpreadPct caps (ask - bid) / mid for every leg.
	MaxSpreadPct float64 `yaml:"max_spread_pct" json:"max_spread_pct" validate:"gt=0"`
}

type StopConfig struct {
	CreditMultiple float64 `yaml:"credit_multiple" json:"credit_multiple" validate:"gt=1"`
	DeltaBreach    float64 `yaml:"delta_breach" json:"delta_breach" validate:"gt=0,lte=1"`
}

type RiskConfig struct {
	DailyLossStop           float64      `yaml:"daily_loss_stop" json:"daily_loss_stop" validate:"gt=0"`
	PerTradeMaxLoss         float64      `yaml:"per_trade_max_loss" json:"per_trade_max_loss" jsonschema:"description=Zero disables the per-trade cap" validate:"gte=0"`
	MaxConcurrentPerSide    int          `yaml:"max_concurrent_per_side" json:"max_concurrent_per_side" validate:"gt=0"`
	MaxContracts            int          `yaml:"max_contracts" json:"max_contracts" validate:"gt=0"`
	NoNewRiskMinutesToClose int          `yaml:"no_new_risk_minutes_to_close" json:"no_new_risk_minutes_to_close" validate:"gte=0"`
	BudgetPolicy            BudgetPolicy `yaml:"budget_policy" json:"budget_policy" jsonschema:"enum=fixed,enum=reverse_fibonacci" validate:"oneof=fixed reverse_fibonacci"`
	ReverseFibonacciLadder  []float64    `yaml:"reverse_fibonacci_ladder" json:"reverse_fibonacci_ladder" validate:"required_if=BudgetPolicy reverse_fibonacci,dive,gt=0"`
	ScaleToFit              bool         `yaml:"scale_to_fit" json:"scale_to_fit"`
	ProbeOneLot             bool         `yaml:"probe_one_lot" json:"probe_one_lot"`
}

type FeeConfig struct {
	Broker                 Broker  `yaml:"broker" json:"broker" jsonschema:"enum=per_contract,enum=zero_commission" validate:"oneof=per_contract zero_commission"`
	CommissionPerContract  float64 `yaml:"commission_per_contract" json:"commission_per_contract" validate:"gte=0"`
	ExchangeFeePerContract float64 `yaml:"exchange_fee_per_contract" json:"exchange_fee_per_contract" validate:"gte=0"`
}

// Default returns the baseline configuration: XSP 0DTE verticals and condors,
// 15 minute decisions, a fixed $500 daily loss stop.
func Default() Config {
	cfg := Config{
		Underlying:             "XSP",
		StartTime:              optional.None[time.Time](),
		EndTime:                optional.None[time.Time](),
		DecisionCadenceSeconds: 900,
		RegularHoursOnly:       true,
		Timezone:               "America/New_York",
		SessionOpen:            "09:30",
		SessionClose:           "16:00",
		Seed:                   42,
		InitialCapital:         25000,
		ContractMultiplier:     100,
		LogLevel:               "info",
		Regime: RegimeConfig{
			Classifier:                 ClassifierOpeningRange,
			OpeningRangeMinutes:        15,
			VWAPWindow:                 30,
			ATRPeriod:                  20,
			EventBlackoutBeforeMinutes: 60,
			EventBlackoutAfterMinutes:  15,
		},
		Spread: SpreadConfig{
			CondorDelta:     DeltaBand{Min: 0.07, Max: 0.15},
			SingleDelta:     DeltaBand{Min: 0.10, Max: 0.20},
			WidthPoints:     2,
			MinWidthPoints:  1,
			MaxWidthPoints:  5,
			WidthStepPoints: 1,
			MinCreditPerWidth: MinCreditPerWidth{
				Condor:     0.10,
				CondorSide: 0.04,
				PutSpread:  0.08,
				CallSpread: 0.08,
			},
		},
		Slippage: SlippageConfig{
			EntryHalfSpreadTicks: 0.5,
			ExitHalfSpreadTicks:  0.5,
			TickValue:            0.05,
			MaxSpreadPct:         0.5,
		},
		Stops: StopConfig{
			CreditMultiple: 2.2,
			DeltaBreach:    0.33,
		},
		Risk: RiskConfig{
			DailyLossStop:           500,
			PerTradeMaxLoss:         0,
			MaxConcurrentPerSide:    2,
			MaxContracts:            1,
			NoNewRiskMinutesToClose: 40,
			BudgetPolicy:            BudgetPolicyFixed,
			ReverseFibonacciLadder:  []float64{500, 300, 200, 100},
		},
		Fees: FeeConfig{
			Broker:                 BrokerPerContract,
			CommissionPerContract:  0.65,
			ExchangeFeePerContract: 0.25,
		},
	}
	cfg.loc = loadLocation(cfg.Timezone)

	return cfg
}

// UnmarshalYAML decodes onto the receiver so keys missing from the document keep
// whatever value the receiver already had (Load starts from Default).
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}

	var window struct {
		StartTime *time.Time `yaml:"start_time"`
		EndTime   *time.Time `yaml:"end_time"`
	}
	if err := value.Decode(&window); err != nil {
		return err
	}

	if window.StartTime != nil {
		c.StartTime = optional.Some(*window.StartTime)
	}

	if window.EndTime != nil {
		c.EndTime = optional.Some(*window.EndTime)
	}

	c.loc = loadLocation(c.Timezone)

	return nil
}

// Parse decodes YAML content on top of Default and validates the result.
func Parse(content []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(content)
}

// WithTimezone returns a copy using the given zone.
func (c Config) WithTimezone(name string) Config {
	c.Timezone = name
	c.loc = loadLocation(name)

	return c
}

// WithRange returns a copy restricted to [start, end].
func (c Config) WithRange(start, end time.Time) Config {
	c.StartTime = optional.Some(start)
	c.EndTime = optional.Some(end)

	return c
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}

	return loc
}
