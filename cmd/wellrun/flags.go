package main

import (
	"github.com/spf13/pflag"

	"github.com/sawpanic/wellrun/internal/model"
)

// bindParameterFlags registers the five investment parameter flags shared
// by the project and simulate commands, seeded with the base-case defaults.
func bindParameterFlags(fs *pflag.FlagSet, p *model.Parameters) {
	defaults := model.DefaultParameters()
	fs.Float64Var(&p.OilPrice, "oil-price", defaults.OilPrice, "Oil price ($/bbl)")
	fs.Float64Var(&p.GasPrice, "gas-price", defaults.GasPrice, "Gas price ($/MCF)")
	fs.Float64Var(&p.InitialProduction, "initial-production", defaults.InitialProduction, "Initial oil production (bbl/month)")
	fs.Float64Var(&p.DeclineRate, "decline-rate", defaults.DeclineRate, "Monthly production decline (%)")
	fs.Float64Var(&p.DiscountRate, "discount-rate", defaults.DiscountRate, "Annualized discount rate (%)")
}
