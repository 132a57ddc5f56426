package model

import "fmt"

// Economics holds the declared cost-model constants. These are model
// assumptions rather than user inputs, named here so tests and config files
// can override them.
type Economics struct {
	GasOilRatio      float64   `yaml:"gas_oil_ratio" json:"gas_oil_ratio"`           // MCF gas per bbl oil
	BaseOpex         float64   `yaml:"base_opex" json:"base_opex"`                   // $k/month in month 1
	CostEscalation   float64   `yaml:"cost_escalation" json:"cost_escalation"`       // annual fraction, compounded monthly
	SeveranceTaxRate float64   `yaml:"severance_tax_rate" json:"severance_tax_rate"` // fraction of total revenue
	CapexSchedule    []float64 `yaml:"capex_schedule" json:"capex_schedule"`         // $k per month, length must equal horizon
}

// DefaultEconomics returns the standard constants: 6:1 gas-to-oil ratio,
// $15k base monthly opex escalating 2.5%/yr, 7.5% severance tax, and a
// front-loaded 60-month capex schedule ($500k drilling outlay tapering to
// $5k/month maintenance).
func DefaultEconomics() Economics {
	capex := make([]float64, 0, DefaultHorizon)
	capex = append(capex, 500, 300, 200, 100, 50, 50)
	for i := 0; i < 18; i++ {
		capex = append(capex, 10)
	}
	for i := 0; i < 36; i++ {
		capex = append(capex, 5)
	}
	return Economics{
		GasOilRatio:      6.0,
		BaseOpex:         15.0,
		CostEscalation:   0.025,
		SeveranceTaxRate: 0.075,
		CapexSchedule:    capex,
	}
}

// Validate checks the constants against the requested horizon.
func (e Economics) Validate(horizon int) error {
	if e.GasOilRatio < 0 {
		return fmt.Errorf("%w: gas-oil ratio %.2f is negative", ErrInvalidParameter, e.GasOilRatio)
	}
	if e.BaseOpex < 0 {
		return fmt.Errorf("%w: base opex %.2f is negative", ErrInvalidParameter, e.BaseOpex)
	}
	if e.SeveranceTaxRate < 0 || e.SeveranceTaxRate >= 1 {
		return fmt.Errorf("%w: severance tax rate %.3f outside [0, 1)", ErrInvalidParameter, e.SeveranceTaxRate)
	}
	if len(e.CapexSchedule) != horizon {
		return fmt.Errorf("%w: capex schedule has %d entries, horizon is %d", ErrInvalidParameter, len(e.CapexSchedule), horizon)
	}
	return nil
}
