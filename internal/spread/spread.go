// Package spread turns a trade decision and a chain snapshot into a candidate
// credit spread order.
package spread

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/rxtech-lab/odte-backtest/internal/logger"
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/rxtech-lab/odte-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SpreadBuilder builds candidate orders. An absent result is a normal outcome;
// the error is reserved for provider faults.
type SpreadBuilder interface {
	TryBuild(ts time.Time, decision types.DecisionType, market datasource.MarketData, options datasource.OptionsData) (optional.Option[types.SpreadOrder], error)
	TryBuildWithWidth(ts time.Time, decision types.DecisionType, market datasource.MarketData, options datasource.OptionsData, width decimal.Decimal) (optional.Option[types.SpreadOrder], error)
}

// Rejection names the check that discarded a candidate.
type Rejection string

const (
	RejectNone          Rejection = ""
	RejectNoGo          Rejection = "no_go"
	RejectNoSpot        Rejection = "no_spot"
	RejectEmptyChain    Rejection = "empty_chain"
	RejectNoShortStrike Rejection = "no_short_strike"
	RejectNoLongStrike  Rejection = "no_long_strike"
	RejectNoCredit      Rejection = "no_credit"
	RejectWidth         Rejection = "width_out_of_band"
	RejectCreditPerWid  Rejection = "credit_per_width"
	RejectIlliquid      Rejection = "illiquid"
)

// Builder selects short strikes by delta and long strikes by point width.
type Builder struct {
	cfg      config.Config
	minWidth decimal.Decimal
	maxWidth decimal.Decimal
	maxPct   decimal.Decimal
	logger   *logger.Logger
}

func NewBuilder(cfg config.Config, log *logger.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		minWidth: decimal.NewFromFloat(cfg.Spread.MinWidthPoints),
		maxWidth: decimal.NewFromFloat(cfg.Spread.MaxWidthPoints),
		maxPct:   decimal.NewFromFloat(cfg.Slippage.MaxSpreadPct),
		logger:   log.Named("spread"),
	}
}

// TryBuild builds with the configured width.
func (b *Builder) TryBuild(ts time.Time, decision types.DecisionType, market datasource.MarketData, options datasource.OptionsData) (optional.Option[types.SpreadOrder], error) {
	return b.TryBuildWithWidth(ts, decision, market, options, decimal.NewFromFloat(b.cfg.Spread.WidthPoints))
}

// TryBuildWithWidth builds with the long strike width points beyond the short strike.
func (b *Builder) TryBuildWithWidth(ts time.Time, decision types.DecisionType, market datasource.MarketData, options datasource.OptionsData, width decimal.Decimal) (optional.Option[types.SpreadOrder], error) {
	order, rejection, err := b.build(ts, decision, market, options, width)
	if err != nil {
		return optional.None[types.SpreadOrder](), err
	}

	if rejection != RejectNone {
		b.logger.Debug("No viable spread",
			zap.Time("time", ts),
			zap.String("decision", string(decision)),
			zap.String("width", width.String()),
			zap.String("rejection", string(rejection)),
		)

		return optional.None[types.SpreadOrder](), nil
	}

	return optional.Some(order), nil
}

func (b *Builder) build(ts time.Time, decision types.DecisionType, market datasource.MarketData, options datasource.OptionsData, width decimal.Decimal) (types.SpreadOrder, Rejection, error) {
	if decision == types.DecisionNoGo || (!decision.UsesPutSide() && !decision.UsesCallSide()) {
		return types.SpreadOrder{}, RejectNoGo, nil
	}

	spot, err := market.GetSpot(ts)
	if err != nil {
		return types.SpreadOrder{}, RejectNone, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read spot", err)
	}

	if !spot.IsPositive() {
		return types.SpreadOrder{}, RejectNoSpot, nil
	}

	expiry, err := options.TodayExpiry(ts)
	if err != nil {
		return types.SpreadOrder{}, RejectNone, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to resolve expiry", err)
	}

	quotes, err := options.GetQuotesAt(ts)
	if err != nil {
		return types.SpreadOrder{}, RejectNone, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read option chain", err)
	}

	chain := make([]types.OptionQuote, 0, len(quotes))

	for _, q := range quotes {
		if types.SameDate(q.Expiry, expiry, b.cfg.Location()) {
			chain = append(chain, q)
		}
	}

	if len(chain) == 0 {
		return types.SpreadOrder{}, RejectEmptyChain, nil
	}

	band := b.cfg.Spread.SingleDelta
	if decision == types.DecisionCondor {
		band = b.cfg.Spread.CondorDelta
	}

	var verticals []types.Vertical

	if decision.UsesPutSide() {
		v, rejection := b.vertical(chain, types.RightPut, spot, band, width, b.sideMinimum(decision, types.RightPut))
		if rejection != RejectNone {
			return types.SpreadOrder{}, rejection, nil
		}

		verticals = append(verticals, v)
	}

	if decision.UsesCallSide() {
		v, rejection := b.vertical(chain, types.RightCall, spot, band, width, b.sideMinimum(decision, types.RightCall))
		if rejection != RejectNone {
			return types.SpreadOrder{}, rejection, nil
		}

		verticals = append(verticals, v)
	}

	netCredit := decimal.Zero
	maxWidth := decimal.Zero

	for _, v := range verticals {
		netCredit = netCredit.Add(v.Credit)
		maxWidth = types.MaxDecimal(maxWidth, v.Width())
	}

	creditPerWidth := netCredit.Div(maxWidth)

	if decision == types.DecisionCondor && creditPerWidth.LessThan(decimal.NewFromFloat(b.cfg.Spread.MinCreditPerWidth.Condor)) {
		return types.SpreadOrder{}, RejectCreditPerWid, nil
	}

	return types.SpreadOrder{
		Timestamp:      ts,
		Underlying:     b.cfg.Underlying,
		Decision:       decision,
		Expiry:         expiry,
		NetCredit:      netCredit,
		Width:          maxWidth,
		CreditPerWidth: creditPerWidth,
		Quantity:       1,
		Verticals:      verticals,
	}, RejectNone, nil
}

func (b *Builder) sideMinimum(decision types.DecisionType, right types.Right) decimal.Decimal {
	m := b.cfg.Spread.MinCreditPerWidth

	switch {
	case decision == types.DecisionCondor:
		return decimal.NewFromFloat(m.CondorSide)
	case right == types.RightPut:
		return decimal.NewFromFloat(m.PutSpread)
	default:
		return decimal.NewFromFloat(m.CallSpread)
	}
}

// vertical builds and checks one credit vertical on the given side.
func (b *Builder) vertical(chain []types.OptionQuote, right types.Right, spot decimal.Decimal, band config.DeltaBand, width decimal.Decimal, minCreditPerWidth decimal.Decimal) (types.Vertical, Rejection) {
	short, ok := selectShort(chain, right, spot, band)
	if !ok {
		return types.Vertical{}, RejectNoShortStrike
	}

	target := short.Strike.Sub(width)
	if right == types.RightCall {
		target = short.Strike.Add(width)
	}

	long, ok := selectLong(chain, right, short.Strike, target)
	if !ok {
		return types.Vertical{}, RejectNoLongStrike
	}

	v := types.Vertical{
		Right:  right,
		Short:  types.SpreadLeg{Expiry: short.Expiry, Strike: short.Strike, Right: right, Ratio: -1},
		Long:   types.SpreadLeg{Expiry: long.Expiry, Strike: long.Strike, Right: right, Ratio: 1},
		Credit: short.Bid.Sub(long.Ask),
	}

	if !v.Credit.IsPositive() {
		return types.Vertical{}, RejectNoCredit
	}

	w := v.Width()
	if w.LessThan(b.minWidth) || w.GreaterThan(b.maxWidth) {
		return types.Vertical{}, RejectWidth
	}

	if !b.liquid(short) || !b.liquid(long) {
		return types.Vertical{}, RejectIlliquid
	}

	if v.Credit.Div(w).LessThan(minCreditPerWidth) {
		return types.Vertical{}, RejectCreditPerWid
	}

	return v, RejectNone
}

func (b *Builder) liquid(q types.OptionQuote) bool {
	pct, ok := q.SpreadPct()

	return ok && !pct.GreaterThan(b.maxPct)
}

// selectShort picks the out-of-the-money strike whose |delta| is nearest the band midpoint.
// Ties go to the strike further from spot.
func selectShort(chain []types.OptionQuote, right types.Right, spot decimal.Decimal, band config.DeltaBand) (types.OptionQuote, bool) {
	var (
		best     types.OptionQuote
		bestDist = math.Inf(1)
		found    bool
	)

	target := band.Target()

	for _, q := range chain {
		if q.Right != right || !outOfTheMoney(q, spot) {
			continue
		}

		absDelta := math.Abs(q.Delta)
		if !band.Contains(absDelta) {
			continue
		}

		dist := math.Abs(absDelta - target)
		if dist < bestDist || (dist == bestDist && fartherOTM(q, best)) {
			best, bestDist, found = q, dist, true
		}
	}

	return best, found
}

// selectLong finds the quote at target, or else the nearest strike beyond it away from the short.
func selectLong(chain []types.OptionQuote, right types.Right, shortStrike decimal.Decimal, target decimal.Decimal) (types.OptionQuote, bool) {
	var (
		best  types.OptionQuote
		found bool
	)

	for _, q := range chain {
		if q.Right != right {
			continue
		}

		if q.Strike.Equal(target) {
			return q, true
		}

		beyond := q.Strike.LessThan(target)
		if right == types.RightCall {
			beyond = q.Strike.GreaterThan(target)
		}

		if !beyond || q.Strike.Equal(shortStrike) {
			continue
		}

		if !found || q.Strike.Sub(target).Abs().LessThan(best.Strike.Sub(target).Abs()) {
			best, found = q, true
		}
	}

	return best, found
}

func outOfTheMoney(q types.OptionQuote, spot decimal.Decimal) bool {
	if q.Right == types.RightPut {
		return q.Strike.LessThan(spot)
	}

	return q.Strike.GreaterThan(spot)
}

func fartherOTM(a, b types.OptionQuote) bool {
	if a.Right == types.RightPut {
		return a.Strike.LessThan(b.Strike)
	}

	return a.Strike.GreaterThan(b.Strike)
}
