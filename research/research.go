// Package research implements the twelve-step investment research
// pipeline as step processors: profile definition, sector selection,
// candidate screening, ticker selection, fundamental and technical
// analysis, valuation, peer comparison, risk assessment, position
// sizing, trade simulation and the final review.
//
// Every processor reads market data through a [marketdata.Provider] and
// earlier steps' outputs through the step context. Register wires the
// full catalog into a registry:
//
//	reg := step.NewRegistry()
//	research.MustRegister(reg, marketdata.NewStatic())
package research

import (
	"fmt"
	"math"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
)

// Register wires the twelve research steps into reg, reading market data
// from p.
func Register(reg *step.Registry, p marketdata.Provider) error {
	if p == nil {
		return fmt.Errorf("research: market data provider must not be nil")
	}

	procs := []step.Processor{
		NewProfileStep(),
		NewSectorStep(p),
		NewScreenStep(p),
		NewTickerStep(p),
		NewFundamentalsStep(p),
		NewTechnicalsStep(p),
		NewValuationStep(p),
		NewPeersStep(p),
		NewRiskStep(p),
		NewSizingStep(p),
		NewSimulationStep(p),
		NewReviewStep(),
	}
	for _, proc := range procs {
		if err := reg.Register(proc); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error. Intended for wiring at
// startup where a bad catalog is unrecoverable.
func MustRegister(reg *step.Registry, p marketdata.Provider) {
	if err := Register(reg, p); err != nil {
		panic(err)
	}
}

// dataFailure converts a market data error into a failed outcome so the
// caller can retry the step once the upstream recovers.
func dataFailure(err error) *step.Outcome {
	return step.Failure("market data: " + err.Error())
}

// round2 rounds to two decimal places for presentation values.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
