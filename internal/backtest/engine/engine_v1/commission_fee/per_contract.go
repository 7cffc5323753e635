package commission_fee

import "github.com/shopspring/decimal"

// PerContractCommissionFee charges a broker commission plus an exchange fee on every contract.
type PerContractCommissionFee struct {
	commission  decimal.Decimal
	exchangeFee decimal.Decimal
}

func NewPerContractCommissionFee(commission decimal.Decimal, exchangeFee decimal.Decimal) CommissionFee {
	return &PerContractCommissionFee{
		commission:  commission,
		exchangeFee: exchangeFee,
	}
}

func (c *PerContractCommissionFee) Calculate(contracts int) decimal.Decimal {
	if contracts <= 0 {
		return decimal.Zero
	}

	return c.commission.Add(c.exchangeFee).Mul(decimal.NewFromInt(int64(contracts)))
}
