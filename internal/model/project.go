package model

import (
	"fmt"
	"math"
)

// MonthlyRecord is one period of the projected trajectory. Money fields are
// in thousands of dollars; production is bbl/month (oil) or MCF/month (gas).
type MonthlyRecord struct {
	Month              int     `json:"month"`
	OilProduction      float64 `json:"oil_production"`
	GasProduction      float64 `json:"gas_production"`
	OilRevenue         float64 `json:"oil_revenue"`
	GasRevenue         float64 `json:"gas_revenue"`
	TotalRevenue       float64 `json:"total_revenue"`
	OperatingExpense   float64 `json:"operating_expense"`
	SeveranceTax       float64 `json:"severance_tax"`
	TotalOpex          float64 `json:"total_opex"`
	NetOperatingIncome float64 `json:"net_operating_income"`
	Capex              float64 `json:"capex"`
	NetCashFlow        float64 `json:"net_cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	PVFactor           float64 `json:"pv_factor"`
	PVCashFlow         float64 `json:"pv_cash_flow"`
}

// Summary is the derived metric set for one projection. IRR is advisory:
// when the solver fails to converge it reports 0 with IRRConverged false.
type Summary struct {
	TotalInvestment   float64 `json:"total_investment"`    // $k, sum of capex
	TotalRevenue      float64 `json:"total_revenue"`       // $k
	NPV               float64 `json:"npv"`                 // $k
	IRR               float64 `json:"irr"`                 // percent, annualized
	IRRConverged      bool    `json:"irr_converged"`
	PaybackMonths     int     `json:"payback_months"`      // horizon when never paid back
	FinalCumulativeCF float64 `json:"final_cumulative_cf"` // $k
	PeakProduction    float64 `json:"peak_production"`     // bbl/month
	FinalProduction   float64 `json:"final_production"`    // bbl/month
}

// Projection is the full deterministic evaluation result: the input
// parameters, the per-month trajectory, and the summary metrics. Computed
// fresh on every call and never mutated afterwards.
type Projection struct {
	Params  Parameters      `json:"params"`
	Months  []MonthlyRecord `json:"months"`
	Summary Summary         `json:"summary"`
}

// Project evaluates the decline-curve cash-flow model over the given horizon.
// It is a pure function of its inputs: identical inputs always produce
// identical outputs, and it is safe for concurrent use.
func Project(params Parameters, econ Economics, horizon int) (*Projection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon %d must be at least 1", ErrInvalidParameter, horizon)
	}
	if err := econ.Validate(horizon); err != nil {
		return nil, err
	}

	decline := params.DeclineRate / 100
	monthlyDiscount := params.DiscountRate / 100 / 12

	months := make([]MonthlyRecord, horizon)
	cashFlows := make([]float64, horizon)

	var cumulative float64
	summary := Summary{PaybackMonths: horizon}
	paidBack := false

	for m := 1; m <= horizon; m++ {
		oil := params.InitialProduction * math.Pow(1-decline, float64(m-1))
		gas := oil * econ.GasOilRatio

		// Revenue in $k.
		oilRev := oil * params.OilPrice / 1000
		gasRev := gas * params.GasPrice / 1000
		totalRev := oilRev + gasRev

		opex := econ.BaseOpex * math.Pow(1+econ.CostEscalation/12, float64(m-1))
		severance := totalRev * econ.SeveranceTaxRate
		totalOpex := opex + severance
		noi := totalRev - totalOpex

		capex := econ.CapexSchedule[m-1]
		ncf := noi - capex
		cumulative += ncf

		pvFactor := math.Pow(1+monthlyDiscount, -float64(m))
		pvCF := ncf * pvFactor

		months[m-1] = MonthlyRecord{
			Month:              m,
			OilProduction:      oil,
			GasProduction:      gas,
			OilRevenue:         oilRev,
			GasRevenue:         gasRev,
			TotalRevenue:       totalRev,
			OperatingExpense:   opex,
			SeveranceTax:       severance,
			TotalOpex:          totalOpex,
			NetOperatingIncome: noi,
			Capex:              capex,
			NetCashFlow:        ncf,
			CumulativeCashFlow: cumulative,
			PVFactor:           pvFactor,
			PVCashFlow:         pvCF,
		}
		cashFlows[m-1] = ncf

		summary.TotalInvestment += capex
		summary.TotalRevenue += totalRev
		summary.NPV += pvCF
		if !paidBack && cumulative >= 0 {
			summary.PaybackMonths = m
			paidBack = true
		}
	}

	summary.FinalCumulativeCF = cumulative
	summary.PeakProduction = months[0].OilProduction
	summary.FinalProduction = months[horizon-1].OilProduction
	summary.IRR, summary.IRRConverged = SolveIRR(cashFlows)

	return &Projection{Params: params, Months: months, Summary: summary}, nil
}
