package execution

import (
	"github.com/rxtech-lab/odte-backtest/internal/types"
	"github.com/shopspring/decimal"
)

type legKey struct {
	right  types.Right
	strike string
}

// SpreadValue prices the order from a chain snapshot as the sum over its verticals of
// short mid minus long mid. shortDelta is the largest |delta| among the short legs.
// ok is false when any leg is missing from the snapshot.
func SpreadValue(order types.SpreadOrder, quotes []types.OptionQuote) (value decimal.Decimal, shortDelta float64, ok bool) {
	loc := order.Expiry.Location()
	byLeg := make(map[legKey]types.OptionQuote, len(quotes))

	for _, q := range quotes {
		if !order.Expiry.IsZero() && !types.SameDate(q.Expiry, order.Expiry, loc) {
			continue
		}

		byLeg[legKey{right: q.Right, strike: q.Strike.String()}] = q
	}

	value = decimal.Zero

	for _, v := range order.Verticals {
		short, found := byLeg[legKey{right: v.Short.Right, strike: v.Short.Strike.String()}]
		if !found {
			return decimal.Zero, 0, false
		}

		long, found := byLeg[legKey{right: v.Long.Right, strike: v.Long.Strike.String()}]
		if !found {
			return decimal.Zero, 0, false
		}

		value = value.Add(short.Mid.Sub(long.Mid))

		delta := short.Delta
		if delta < 0 {
			delta = -delta
		}

		shortDelta = max(shortDelta, delta)
	}

	return value, shortDelta, true
}

// IntrinsicValue is the settlement value of the order with the underlying at spot.
func IntrinsicValue(order types.SpreadOrder, spot decimal.Decimal) decimal.Decimal {
	value := decimal.Zero

	for _, v := range order.Verticals {
		value = value.Add(intrinsic(v.Short, spot).Sub(intrinsic(v.Long, spot)))
	}

	return value
}

func intrinsic(leg types.SpreadLeg, spot decimal.Decimal) decimal.Decimal {
	if leg.Right == types.RightPut {
		return decimal.Max(decimal.Zero, leg.Strike.Sub(spot))
	}

	return decimal.Max(decimal.Zero, spot.Sub(leg.Strike))
}
