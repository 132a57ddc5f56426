package model

// Scenario names for the standard side-by-side comparison.
const (
	ScenarioConservative = "conservative"
	ScenarioBase         = "base"
	ScenarioOptimistic   = "optimistic"
)

// Scenario pairs a label with a parameter variant.
type Scenario struct {
	Name   string     `json:"name"`
	Params Parameters `json:"params"`
}

// Scenarios derives the three standard variants from a base case:
// conservative stresses prices and initial production down 20% and the
// decline rate up 50%; optimistic does the reverse (up 20%, decline x0.7).
// The discount rate is held fixed across scenarios.
func Scenarios(base Parameters) []Scenario {
	conservative := base
	conservative.OilPrice *= 0.8
	conservative.GasPrice *= 0.8
	conservative.InitialProduction *= 0.8
	conservative.DeclineRate *= 1.5

	optimistic := base
	optimistic.OilPrice *= 1.2
	optimistic.GasPrice *= 1.2
	optimistic.InitialProduction *= 1.2
	optimistic.DeclineRate *= 0.7

	return []Scenario{
		{Name: ScenarioConservative, Params: conservative},
		{Name: ScenarioBase, Params: base},
		{Name: ScenarioOptimistic, Params: optimistic},
	}
}

// Grade buckets a projection by its NPV return (NPV divided by total
// investment, in percent).
func Grade(npvReturnPct float64) string {
	switch {
	case npvReturnPct > 25:
		return "EXCELLENT"
	case npvReturnPct > 15:
		return "VERY GOOD"
	case npvReturnPct > 5:
		return "GOOD"
	case npvReturnPct > 0:
		return "ACCEPTABLE"
	default:
		return "POOR"
	}
}
