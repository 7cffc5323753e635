package commission_fee

import "github.com/shopspring/decimal"

// ZeroCommissionFee waives the broker commission. Exchange fees still apply.
type ZeroCommissionFee struct {
	exchangeFee decimal.Decimal
}

func NewZeroCommissionFee(exchangeFee decimal.Decimal) CommissionFee {
	return &ZeroCommissionFee{
		exchangeFee: exchangeFee,
	}
}

func (c *ZeroCommissionFee) Calculate(contracts int) decimal.Decimal {
	if contracts <= 0 {
		return decimal.Zero
	}

	return c.exchangeFee.Mul(decimal.NewFromInt(int64(contracts)))
}
