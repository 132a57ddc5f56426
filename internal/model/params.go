package model

import (
	"errors"
	"fmt"
)

// DefaultHorizon is the standard projection length in months.
const DefaultHorizon = 60

// ErrInvalidParameter indicates malformed or out-of-domain projection inputs.
// Wrapped errors name the offending field.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameters is the immutable input set for one well evaluation. Rates are
// percent-form: DeclineRate 1.5 means 1.5% production decline per month,
// DiscountRate 10 means 10% annualized.
type Parameters struct {
	OilPrice          float64 `json:"oil_price" yaml:"oil_price"`                   // $/bbl
	GasPrice          float64 `json:"gas_price" yaml:"gas_price"`                   // $/MCF
	InitialProduction float64 `json:"initial_production" yaml:"initial_production"` // bbl/month
	DeclineRate       float64 `json:"decline_rate" yaml:"decline_rate"`             // %/month
	DiscountRate      float64 `json:"discount_rate" yaml:"discount_rate"`           // %/year
}

// DefaultParameters returns the base-case well assumptions.
func DefaultParameters() Parameters {
	return Parameters{
		OilPrice:          65.0,
		GasPrice:          3.25,
		InitialProduction: 1000,
		DeclineRate:       1.5,
		DiscountRate:      10.0,
	}
}

// Validate checks the parameter domain. A zero decline rate is a valid edge
// case (flat production); a decline of 100%/month or more is not. The
// discount rate may be zero but not negative.
func (p Parameters) Validate() error {
	if p.OilPrice < 0 {
		return fmt.Errorf("%w: oil price %.2f is negative", ErrInvalidParameter, p.OilPrice)
	}
	if p.GasPrice < 0 {
		return fmt.Errorf("%w: gas price %.2f is negative", ErrInvalidParameter, p.GasPrice)
	}
	if p.InitialProduction <= 0 {
		return fmt.Errorf("%w: initial production %.2f must be positive", ErrInvalidParameter, p.InitialProduction)
	}
	if p.DeclineRate < 0 || p.DeclineRate >= 100 {
		return fmt.Errorf("%w: decline rate %.2f%%/month outside [0, 100)", ErrInvalidParameter, p.DeclineRate)
	}
	if p.DiscountRate < 0 {
		return fmt.Errorf("%w: discount rate %.2f%% is negative", ErrInvalidParameter, p.DiscountRate)
	}
	return nil
}
