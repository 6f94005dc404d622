package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Order types and simulated order states.
const (
	OrderMarket = "market"
	OrderLimit  = "limit"

	OrderFilled  = "filled"
	OrderResting = "resting"
)

var simulationSchema = validate.NewSchema(
	validate.Field("orderType", validate.String(), validate.OneOf(OrderMarket, OrderLimit)),
	validate.Field("quantity", validate.Number(), validate.Int(), validate.IntBetween(1, 1_000_000)),
	validate.Optional("limitPrice", validate.Number(), validate.Positive()),
).Cross(
	validate.RequiredIf("limitPrice", "orderType", OrderLimit),
)

// SimulationStep dry-runs the order against the current quote. No order
// leaves the system; the step reports what would have happened.
type SimulationStep struct {
	data marketdata.Provider
}

// NewSimulationStep returns the trade simulation step.
func NewSimulationStep(data marketdata.Provider) *SimulationStep {
	return &SimulationStep{data: data}
}

func (s *SimulationStep) Definition() step.Definition {
	return step.Definition{Number: 11, Label: "Trade Simulation"}
}

func (s *SimulationStep) ValidateInputs(in step.Inputs) validate.Result {
	return simulationSchema.Validate(in)
}

func (s *SimulationStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 11")
	}

	quote, err := s.data.Quote(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}

	orderType := in.String("orderType")
	quantity := in.Int("quantity")

	status := OrderFilled
	fillPrice := quote.Price
	var note string

	if orderType == OrderLimit {
		limit := in.Float("limitPrice")
		if limit < quote.Price {
			// A buy limit below market does not cross; it rests.
			status = OrderResting
			fillPrice = 0
			note = fmt.Sprintf("limit %.2f is below market %.2f; order would rest on the book", limit, quote.Price)
		} else {
			// Crossing limit fills at the better market price.
			fillPrice = quote.Price
		}
	}

	data := map[string]any{
		"ticker":    ticker,
		"orderType": orderType,
		"quantity":  quantity,
		"status":    status,
		"fillPrice": round2(fillPrice),
		"totalCost": round2(fillPrice * float64(quantity)),
	}
	if orderType == OrderLimit {
		data["limitPrice"] = in.Float("limitPrice")
	}

	out := step.Success(data)
	if note != "" {
		out.Warn(note)
	}
	if sized := int(sc.Float(10, "shares")); sized > 0 && quantity > sized {
		out.Warn(fmt.Sprintf("quantity %d exceeds the sized position of %d shares", quantity, sized))
	}
	return out, nil
}
