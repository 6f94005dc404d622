package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

var screenSchema = validate.NewSchema(
	validate.Optional("minMarketCap", validate.Number(), validate.Positive()),
	validate.Optional("maxPE", validate.Number(), validate.Positive()),
	validate.Optional("minDividendYieldPct", validate.Number(), validate.Min(0)),
)

// ScreenStep filters the selected sector down to a candidate list. All
// criteria are optional; an unfiltered screen returns the whole sector.
type ScreenStep struct {
	data marketdata.Provider
}

// NewScreenStep returns the candidate screening step.
func NewScreenStep(data marketdata.Provider) *ScreenStep {
	return &ScreenStep{data: data}
}

func (s *ScreenStep) Definition() step.Definition {
	return step.Definition{Number: 3, Label: "Screen Candidates"}
}

func (s *ScreenStep) ValidateInputs(in step.Inputs) validate.Result {
	return screenSchema.Validate(in)
}

func (s *ScreenStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	sector := sc.String(2, "sector")
	if sector == "" {
		return nil, fmt.Errorf("research: no sector in context for step 3")
	}

	criteria := marketdata.ScreenCriteria{
		MinMarketCap:        in.Float("minMarketCap"),
		MaxPE:               in.Float("maxPE"),
		MinDividendYieldPct: in.Float("minDividendYieldPct"),
	}
	listings, err := s.data.Screen(ctx, sector, criteria)
	if err != nil {
		return dataFailure(err), nil
	}
	if len(listings) == 0 {
		return step.Failure("no candidates matched the screening criteria; relax the filters"), nil
	}

	symbols := make([]string, len(listings))
	names := make(map[string]any, len(listings))
	for i, l := range listings {
		symbols[i] = l.Symbol
		names[l.Symbol] = l.Name
	}

	out := step.Success(map[string]any{
		"sector":     sector,
		"candidates": symbols,
		"names":      names,
		"count":      len(symbols),
	})
	if len(symbols) == 1 {
		out.Warn("only one candidate matched; consider relaxing the criteria")
	}
	return out, nil
}
