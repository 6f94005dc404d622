package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Valuation verdict labels.
const (
	VerdictUndervalued = "undervalued"
	VerdictFair        = "fairly valued"
	VerdictOvervalued  = "overvalued"
)

// verdictBandPct is the upside band treated as fair value.
const verdictBandPct = 15.0

var valuationSchema = validate.NewSchema(
	validate.Field("growthRatePct", validate.Number(), validate.Between(0, 20)),
	validate.Field("discountRatePct", validate.Number(), validate.Between(1, 30)),
).Cross(
	validate.LessThanField("growthRatePct", "discountRatePct"),
)

// ValuationStep estimates fair value from earnings with a single-stage
// growth model and compares it to the market price. The discount rate
// must strictly exceed the growth rate or the model degenerates.
type ValuationStep struct {
	data marketdata.Provider
}

// NewValuationStep returns the valuation step.
func NewValuationStep(data marketdata.Provider) *ValuationStep {
	return &ValuationStep{data: data}
}

func (s *ValuationStep) Definition() step.Definition {
	return step.Definition{Number: 7, Label: "Valuation"}
}

func (s *ValuationStep) ValidateInputs(in step.Inputs) validate.Result {
	return valuationSchema.Validate(in)
}

func (s *ValuationStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 7")
	}

	eps := sc.Float(5, "eps")
	if eps <= 0 {
		return step.Failure("earnings are non-positive; the earnings growth model does not apply"), nil
	}

	quote, err := s.data.Quote(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}

	growth := in.Float("growthRatePct") / 100
	discount := in.Float("discountRatePct") / 100

	// Single-stage model: next year's earnings capitalized at the
	// spread between discount and growth.
	fair := eps * (1 + growth) / (discount - growth)
	upside := (fair - quote.Price) / quote.Price * 100

	verdict := VerdictFair
	switch {
	case upside > verdictBandPct:
		verdict = VerdictUndervalued
	case upside < -verdictBandPct:
		verdict = VerdictOvervalued
	}

	return step.Success(map[string]any{
		"ticker":          ticker,
		"fairValue":       round2(fair),
		"marketPrice":     quote.Price,
		"upsidePct":       round2(upside),
		"verdict":         verdict,
		"growthRatePct":   in.Float("growthRatePct"),
		"discountRatePct": in.Float("discountRatePct"),
	}), nil
}
