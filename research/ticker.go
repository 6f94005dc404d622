package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

var tickerSchema = validate.NewSchema(
	validate.Field("ticker", validate.String(), validate.NonEmpty(), validate.MaxLen(6)),
)

// TickerStep locks in one symbol from the screened candidates.
type TickerStep struct {
	data marketdata.Provider
}

// NewTickerStep returns the ticker selection step.
func NewTickerStep(data marketdata.Provider) *TickerStep {
	return &TickerStep{data: data}
}

func (s *TickerStep) Definition() step.Definition {
	return step.Definition{Number: 4, Label: "Select Ticker"}
}

func (s *TickerStep) ValidateInputs(in step.Inputs) validate.Result {
	return tickerSchema.Validate(in)
}

func (s *TickerStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	candidates := sc.Strings(3, "candidates")
	if len(candidates) == 0 {
		return nil, fmt.Errorf("research: no candidates in context for step 4")
	}

	ticker := strings.ToUpper(strings.TrimSpace(in.String("ticker")))
	found := false
	for _, c := range candidates {
		if c == ticker {
			found = true
			break
		}
	}
	if !found {
		return step.Failure(fmt.Sprintf("ticker %q is not among the screened candidates: %s",
			ticker, strings.Join(candidates, ", "))), nil
	}

	listing, err := s.data.Lookup(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}

	return step.Success(map[string]any{
		"ticker":      listing.Symbol,
		"companyName": listing.Name,
		"price":       listing.Price,
		"marketCap":   listing.MarketCap,
	}), nil
}
