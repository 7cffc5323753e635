package datasource

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// SyntheticConfig controls the generated sessions.
type SyntheticConfig struct {
	// Days is the number of weekday sessions generated from StartDate on
	Days      int
	StartDate time.Time
	Location  *time.Location
	// SessionOpen and SessionClose are offsets from local midnight
	SessionOpen  time.Duration
	SessionClose time.Duration
	InitialPrice float64
	// DailyVolatility is the close-to-close volatility of one session (0.015 = 1.5%)
	DailyVolatility float64
	BaseVolume      float64
	// ImpliedVol is the annualized at-the-money volatility used to price the chain
	ImpliedVol float64
	StrikeStep float64
	// StrikesPerSide is the number of strikes quoted on each side of the money
	StrikesPerSide int
	// QuoteInterval is the time between chain snapshots
	QuoteInterval time.Duration
	// EventEvery schedules a 14:00 release on every nth session. Zero disables events.
	EventEvery int
}

// DefaultSyntheticConfig returns a five session XSP-like data set.
func DefaultSyntheticConfig(loc *time.Location) SyntheticConfig {
	if loc == nil {
		loc = time.UTC
	}

	return SyntheticConfig{
		Days:            5,
		StartDate:       time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		Location:        loc,
		SessionOpen:     9*time.Hour + 30*time.Minute,
		SessionClose:    16 * time.Hour,
		InitialPrice:    510,
		DailyVolatility: 0.015,
		BaseVolume:      125000,
		ImpliedVol:      0.16,
		StrikeStep:      1,
		StrikesPerSide:  25,
		QuoteInterval:   5 * time.Minute,
		EventEvery:      0,
	}
}

// SyntheticGenerator produces minute bars with U-shaped volume and volatility that
// decays through the session, plus a 0DTE chain priced off the generated path.
// All randomness comes from the seeded source.
type SyntheticGenerator struct {
	rng *rand.Rand
}

// NewSyntheticGenerator creates a generator. Equal seeds give equal data sets.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate builds the data set described by cfg.
func (g *SyntheticGenerator) Generate(cfg SyntheticConfig) (*InMemoryDataSource, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	var (
		bars   []types.Bar
		quotes []types.OptionQuote
		events []types.EconEvent
	)

	price := cfg.InitialPrice
	day := types.AsDate(cfg.StartDate, loc)

	for session := 0; session < cfg.Days; {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)

			continue
		}

		if session > 0 {
			// overnight gap
			price += g.rng.NormFloat64() * price * 0.002
		}

		dayBars := g.generateSession(cfg, day, price)
		bars = append(bars, dayBars...)
		quotes = append(quotes, g.generateChains(cfg, day, dayBars)...)

		if cfg.EventEvery > 0 && (session+1)%cfg.EventEvery == 0 {
			events = append(events, types.EconEvent{
				Time: time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, loc),
				Name: "FOMC",
			})
		}

		if len(dayBars) > 0 {
			price, _ = dayBars[len(dayBars)-1].Close.Float64()
		}

		session++
		day = day.AddDate(0, 0, 1)
	}

	return NewInMemoryDataSource(loc, bars, quotes, events)
}

func (g *SyntheticGenerator) generateSession(cfg SyntheticConfig, day time.Time, startPrice float64) []types.Bar {
	open := wallClock(day, cfg.SessionOpen)
	total := int(cfg.SessionClose.Minutes() - cfg.SessionOpen.Minutes())
	if total <= 0 {
		return nil
	}

	minuteVol := cfg.DailyVolatility / math.Sqrt(390)
	bars := make([]types.Bar, 0, total)
	current := startPrice

	for i := 0; i < total; i++ {
		progress := float64(i) / float64(total)
		vol := minuteVol * (1.5 - 0.7*progress)

		change := g.rng.NormFloat64() * vol * current
		if i > 60 {
			// mean reversion after the first hour
			change += -0.0001 * (current - startPrice) * current / startPrice
		}

		openPrice := current
		closePrice := current + change
		spread := math.Abs(change) + g.rng.ExpFloat64()*vol*current*0.5
		high := math.Max(openPrice, closePrice) + g.rng.Float64()*spread
		low := math.Min(openPrice, closePrice) - g.rng.Float64()*spread
		volume := math.Round(cfg.BaseVolume * (1 + 0.5*math.Cos(2*math.Pi*progress)) * (0.8 + 0.4*g.rng.Float64()))

		bars = append(bars, types.Bar{
			Time:   open.Add(time.Duration(i) * time.Minute),
			Open:   decimal.NewFromFloat(openPrice).Round(2),
			High:   decimal.NewFromFloat(high).Round(2),
			Low:    decimal.NewFromFloat(low).Round(2),
			Close:  decimal.NewFromFloat(closePrice).Round(2),
			Volume: volume,
		})

		current = closePrice
	}

	return bars
}

func (g *SyntheticGenerator) generateChains(cfg SyntheticConfig, day time.Time, bars []types.Bar) []types.OptionQuote {
	if len(bars) == 0 || cfg.QuoteInterval <= 0 {
		return nil
	}

	closeAt := wallClock(day, cfg.SessionClose)
	open := bars[0].Time
	quotes := make([]types.OptionQuote, 0)

	for _, bar := range bars {
		if bar.Time.Sub(open)%cfg.QuoteInterval != 0 {
			continue
		}

		spot, _ := bar.Close.Float64()
		// at least one minute of time value so the last snapshot is still priced
		years := math.Max(closeAt.Sub(bar.Time).Minutes(), 1) / (390 * 252)
		atm := math.Round(spot/cfg.StrikeStep) * cfg.StrikeStep

		for k := -cfg.StrikesPerSide; k <= cfg.StrikesPerSide; k++ {
			strike := atm + float64(k)*cfg.StrikeStep
			if strike <= 0 {
				continue
			}

			iv := cfg.ImpliedVol * (1 + 4*math.Abs(math.Log(strike/spot)))
			if strike < spot {
				// put skew
				iv *= 1.1
			}

			for _, right := range []types.Right{types.RightPut, types.RightCall} {
				price, delta := blackScholes(right, spot, strike, years, iv)
				quotes = append(quotes, g.quote(bar.Time, day, strike, right, price, delta, iv))
			}
		}
	}

	return quotes
}

func (g *SyntheticGenerator) quote(ts time.Time, expiry time.Time, strike float64, right types.Right, price float64, delta float64, iv float64) types.OptionQuote {
	theo := math.Max(price, 0.01)
	halfSpread := math.Max(0.01, theo*(0.03+0.02*g.rng.Float64()))

	bid := decimal.NewFromFloat(math.Max(theo-halfSpread, 0)).Round(2)
	ask := decimal.NewFromFloat(theo + halfSpread).Round(2)

	return types.OptionQuote{
		Time:   ts,
		Expiry: expiry,
		Strike: decimal.NewFromFloat(strike),
		Right:  right,
		Bid:    bid,
		Ask:    ask,
		Mid:    bid.Add(ask).Div(decimal.NewFromInt(2)),
		Delta:  math.Round(delta*10000) / 10000,
		IV:     math.Round(iv*10000) / 10000,
	}
}

// blackScholes prices a European option with zero rates and returns (price, delta).
func blackScholes(right types.Right, spot, strike, years, vol float64) (float64, float64) {
	sd := vol * math.Sqrt(years)
	d1 := (math.Log(spot/strike) + 0.5*sd*sd) / sd
	d2 := d1 - sd

	if right == types.RightCall {
		return spot*normCDF(d1) - strike*normCDF(d2), normCDF(d1)
	}

	return strike*normCDF(-d2) - spot*normCDF(-d1), normCDF(d1) - 1
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func wallClock(day time.Time, offset time.Duration) time.Time {
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, day.Location())
}
