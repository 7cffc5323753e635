package commission_fee

import (
	"github.com/rxtech-lab/odte-backtest/internal/config"
	"github.com/shopspring/decimal"
)

type CommissionFee interface {
	// Calculate returns the fee in USD for filling the given number of option contracts
	Calculate(contracts int) decimal.Decimal
}

// GetCommissionFeeHandler builds the fee model for the configured broker.
func GetCommissionFeeHandler(fees config.FeeConfig) CommissionFee {
	exchange := decimal.NewFromFloat(fees.ExchangeFeePerContract)

	switch fees.Broker {
	case config.BrokerPerContract:
		return NewPerContractCommissionFee(decimal.NewFromFloat(fees.CommissionPerContract), exchange)
	case config.BrokerZero:
		return NewZeroCommissionFee(exchange)
	default:
		return NewZeroCommissionFee(exchange)
	}
}
