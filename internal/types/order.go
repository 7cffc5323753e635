package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecisionType is the structure the orchestrator decided to attempt at a step.
type DecisionType string

const (
	DecisionNoGo       DecisionType = "no_go"
	DecisionPutSpread  DecisionType = "single_put"
	DecisionCallSpread DecisionType = "single_call"
	DecisionCondor     DecisionType = "condor"
)

// UsesPutSide reports whether the decision sells a put vertical.
func (d DecisionType) UsesPutSide() bool {
	return d == DecisionPutSpread || d == DecisionCondor
}

// UsesCallSide reports whether the decision sells a call vertical.
func (d DecisionType) UsesCallSide() bool {
	return d == DecisionCallSpread || d == DecisionCondor
}

// SpreadLeg is one leg of a spread. Ratio is -1 for a short leg and +1 for a long leg;
// larger magnitudes describe multi-lot legs.
type SpreadLeg struct {
	Expiry time.Time       `yaml:"expiry" json:"expiry"`
	Strike decimal.Decimal `yaml:"strike" json:"strike"`
	Right  Right           `yaml:"right" json:"right"`
	Ratio  int             `yaml:"ratio" json:"ratio"`
}

// Vertical is one credit vertical: a short leg and a further OTM long leg of the same right.
type Vertical struct {
	Right  Right           `yaml:"right" json:"right"`
	Short  SpreadLeg       `yaml:"short" json:"short"`
	Long   SpreadLeg       `yaml:"long" json:"long"`
	Credit decimal.Decimal `yaml:"credit" json:"credit"`
}

// Width is |short strike - long strike|.
func (v Vertical) Width() decimal.Decimal {
	return v.Short.Strike.Sub(v.Long.Strike).Abs()
}

// SpreadOrder is a candidate credit structure built at a decision timestamp.
//
// Width is the strike distance of the widest vertical and CreditPerWidth is
// NetCredit / Width. NetCredit is positive for every supported structure.
// Verticals holds one entry for single-sided spreads and put-then-call for condors.
type SpreadOrder struct {
	Timestamp      time.Time       `yaml:"timestamp" json:"timestamp"`
	Underlying     string          `yaml:"underlying" json:"underlying"`
	Decision       DecisionType    `yaml:"decision" json:"decision"`
	Expiry         time.Time       `yaml:"expiry" json:"expiry"`
	NetCredit      decimal.Decimal `yaml:"net_credit" json:"net_credit"`
	Width          decimal.Decimal `yaml:"width" json:"width"`
	CreditPerWidth decimal.Decimal `yaml:"credit_per_width" json:"credit_per_width"`
	Quantity       int             `yaml:"quantity" json:"quantity"`
	Verticals      []Vertical      `yaml:"verticals" json:"verticals"`
}

// ShortLegs returns every short leg in vertical order.
func (o SpreadOrder) ShortLegs() []SpreadLeg {
	legs := make([]SpreadLeg, 0, len(o.Verticals))
	for _, v := range o.Verticals {
		legs = append(legs, v.Short)
	}

	return legs
}

// LongLegs returns every long leg in vertical order.
func (o SpreadOrder) LongLegs() []SpreadLeg {
	legs := make([]SpreadLeg, 0, len(o.Verticals))
	for _, v := range o.Verticals {
		legs = append(legs, v.Long)
	}

	return legs
}

// LegCount is the number of option legs per unit of the structure.
func (o SpreadOrder) LegCount() int {
	return 2 * len(o.Verticals)
}

// WithQuantity returns a copy of the order sized to qty contracts.
func (o SpreadOrder) WithQuantity(qty int) SpreadOrder {
	o.Quantity = qty

	return o
}
