package types

import "github.com/shopspring/decimal"

// RoundCents rounds a dollar amount half-to-even at the cent.
// Every P&L and fee figure stored in the ledger goes through here.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// MaxDecimal returns the larger of a and b.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}

	return b
}
