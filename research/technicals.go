package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Trend labels.
const (
	TrendUp       = "uptrend"
	TrendDown     = "downtrend"
	TrendSideways = "sideways"
)

// defaultLookbackDays is the history window when the caller does not
// pick one. Must cover the 50-day moving average.
const defaultLookbackDays = 90

var technicalsSchema = validate.NewSchema(
	validate.Optional("lookbackDays", validate.Number(), validate.IntBetween(60, 365)),
)

// TechnicalsStep derives moving averages, range and trend from the
// ticker's price history.
type TechnicalsStep struct {
	data marketdata.Provider
}

// NewTechnicalsStep returns the technical analysis step.
func NewTechnicalsStep(data marketdata.Provider) *TechnicalsStep {
	return &TechnicalsStep{data: data}
}

func (s *TechnicalsStep) Definition() step.Definition {
	return step.Definition{Number: 6, Label: "Technical Analysis"}
}

func (s *TechnicalsStep) ValidateInputs(in step.Inputs) validate.Result {
	return technicalsSchema.Validate(in)
}

func (s *TechnicalsStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 6")
	}

	days := in.Int("lookbackDays")
	if days == 0 {
		days = defaultLookbackDays
	}

	candles, err := s.data.History(ctx, ticker, days)
	if err != nil {
		return dataFailure(err), nil
	}
	if len(candles) < 50 {
		return step.Failure(fmt.Sprintf("only %d days of history available; need at least 50", len(candles))), nil
	}

	closes := make([]float64, len(candles))
	high, low := candles[0].High, candles[0].Low
	for i, c := range candles {
		closes[i] = c.Close
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	last := closes[len(closes)-1]
	sma20 := mean(closes[len(closes)-20:])
	sma50 := mean(closes[len(closes)-50:])

	trend := TrendSideways
	switch {
	case last > sma20 && sma20 > sma50:
		trend = TrendUp
	case last < sma20 && sma20 < sma50:
		trend = TrendDown
	}

	momentum := (last - closes[0]) / closes[0] * 100

	return step.Success(map[string]any{
		"ticker":       ticker,
		"lookbackDays": len(candles),
		"lastClose":    round2(last),
		"sma20":        round2(sma20),
		"sma50":        round2(sma50),
		"rangeHigh":    round2(high),
		"rangeLow":     round2(low),
		"trend":        trend,
		"momentumPct":  round2(momentum),
	}), nil
}

// mean averages a non-empty slice.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
