package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Variants(t *testing.T) {
	base := baseParams()
	scenarios := Scenarios(base)
	require.Len(t, scenarios, 3)

	assert.Equal(t, ScenarioConservative, scenarios[0].Name)
	assert.Equal(t, ScenarioBase, scenarios[1].Name)
	assert.Equal(t, ScenarioOptimistic, scenarios[2].Name)

	assert.Equal(t, base, scenarios[1].Params)

	cons := scenarios[0].Params
	assert.InDelta(t, base.OilPrice*0.8, cons.OilPrice, 1e-9)
	assert.InDelta(t, base.GasPrice*0.8, cons.GasPrice, 1e-9)
	assert.InDelta(t, base.InitialProduction*0.8, cons.InitialProduction, 1e-9)
	assert.InDelta(t, base.DeclineRate*1.5, cons.DeclineRate, 1e-9)
	assert.Equal(t, base.DiscountRate, cons.DiscountRate)

	opt := scenarios[2].Params
	assert.InDelta(t, base.OilPrice*1.2, opt.OilPrice, 1e-9)
	assert.InDelta(t, base.DeclineRate*0.7, opt.DeclineRate, 1e-9)
	assert.Equal(t, base.DiscountRate, opt.DiscountRate)
}

func TestScenarios_OrderedByNPV(t *testing.T) {
	var npvs []float64
	for _, sc := range Scenarios(baseParams()) {
		proj, err := Project(sc.Params, DefaultEconomics(), DefaultHorizon)
		require.NoError(t, err)
		npvs = append(npvs, proj.Summary.NPV)
	}
	assert.Less(t, npvs[0], npvs[1], "conservative below base")
	assert.Less(t, npvs[1], npvs[2], "base below optimistic")
}

func TestGrade(t *testing.T) {
	cases := []struct {
		ret  float64
		want string
	}{
		{30, "EXCELLENT"},
		{25, "VERY GOOD"},
		{20, "VERY GOOD"},
		{10, "GOOD"},
		{3, "ACCEPTABLE"},
		{0, "POOR"},
		{-12, "POOR"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Grade(tc.ret), "return %.0f%%", tc.ret)
	}
}
