package research

import (
	"context"
	"fmt"
	"math"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// stopDistancePct is the protective stop used for risk-based sizing,
// as a fraction of entry price.
const stopDistancePct = 0.08

var sizingSchema = validate.NewSchema(
	validate.Optional("riskPerTradePct", validate.Number(), validate.Between(0.1, 10)),
)

// SizingStep converts the profile's capital and risk budget into a share
// count. Sizing is risk-based: the amount lost if the stop is hit equals
// the per-trade risk budget.
type SizingStep struct {
	data marketdata.Provider
}

// NewSizingStep returns the position sizing step.
func NewSizingStep(data marketdata.Provider) *SizingStep {
	return &SizingStep{data: data}
}

func (s *SizingStep) Definition() step.Definition {
	return step.Definition{Number: 10, Label: "Position Sizing"}
}

func (s *SizingStep) ValidateInputs(in step.Inputs) validate.Result {
	return sizingSchema.Validate(in)
}

func (s *SizingStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 10")
	}
	prof, ok := sc.Profile()
	if !ok {
		return step.Failure("no investment profile on file; rerun the profile step"), nil
	}

	quote, err := s.data.Quote(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}

	riskPct := in.Float("riskPerTradePct")
	if riskPct == 0 {
		riskPct = defaultRiskPerTradePct(prof.RiskTolerance)
	}

	riskBudget := prof.Capital * riskPct / 100
	stop := quote.Price * stopDistancePct
	shares := int(math.Floor(riskBudget / stop))

	if affordable := int(math.Floor(prof.Capital / quote.Price)); shares > affordable {
		shares = affordable
	}
	if shares < 1 {
		return step.Failure(fmt.Sprintf(
			"capital of %.2f cannot fund one share at %.2f within a %.1f%% risk budget",
			prof.Capital, quote.Price, riskPct)), nil
	}

	allocation := float64(shares) * quote.Price

	out := step.Success(map[string]any{
		"ticker":          ticker,
		"shares":          shares,
		"entryPrice":      quote.Price,
		"allocation":      round2(allocation),
		"allocationPct":   round2(allocation / prof.Capital * 100),
		"riskPerTradePct": riskPct,
		"stopLossPrice":   round2(quote.Price * (1 - stopDistancePct)),
	})
	if pct := allocation / prof.Capital * 100; pct > 25 {
		out.Warn(fmt.Sprintf("position takes %.1f%% of capital; consider diversifying", pct))
	}
	return out, nil
}

// defaultRiskPerTradePct maps tolerance to a per-trade risk budget.
func defaultRiskPerTradePct(tol profile.RiskTolerance) float64 {
	switch tol {
	case profile.RiskHigh:
		return 4
	case profile.RiskMedium:
		return 2
	default:
		return 1
	}
}
