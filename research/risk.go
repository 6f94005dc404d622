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

// Risk level labels.
const (
	RiskLevelLow      = "low"
	RiskLevelModerate = "moderate"
	RiskLevelHigh     = "high"
)

var riskSchema = validate.NewSchema()

// RiskStep rates the position's risk from realized volatility and
// leverage, then holds it against the user's stated tolerance. A
// mismatch is a warning, not a failure; the user decides.
type RiskStep struct {
	data marketdata.Provider
}

// NewRiskStep returns the risk assessment step.
func NewRiskStep(data marketdata.Provider) *RiskStep {
	return &RiskStep{data: data}
}

func (s *RiskStep) Definition() step.Definition {
	return step.Definition{Number: 9, Label: "Risk Assessment"}
}

func (s *RiskStep) ValidateInputs(in step.Inputs) validate.Result {
	return riskSchema.Validate(in)
}

func (s *RiskStep) Execute(ctx context.Context, _ step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 9")
	}
	prof, ok := sc.Profile()
	if !ok {
		return step.Failure("no investment profile on file; rerun the profile step"), nil
	}

	candles, err := s.data.History(ctx, ticker, defaultLookbackDays)
	if err != nil {
		return dataFailure(err), nil
	}
	if len(candles) < 2 {
		return step.Failure("not enough history to estimate volatility"), nil
	}

	vol := annualizedVolatilityPct(candles)
	leverage := sc.Float(5, "debtToEquity")

	score := int(math.Round(20 + vol + 15*leverage))
	if score > 100 {
		score = 100
	}
	level := RiskLevelHigh
	switch {
	case score < 40:
		level = RiskLevelLow
	case score <= 65:
		level = RiskLevelModerate
	}

	within := withinTolerance(level, prof.RiskTolerance)

	out := step.Success(map[string]any{
		"ticker":                  ticker,
		"annualizedVolatilityPct": round2(vol),
		"debtToEquity":            leverage,
		"riskScore":               score,
		"riskLevel":               level,
		"withinTolerance":         within,
	})
	if !within {
		out.Warn(fmt.Sprintf("assessed risk level %q exceeds your stated tolerance %q", level, prof.RiskTolerance))
	}
	return out, nil
}

// annualizedVolatilityPct is the standard deviation of daily returns
// scaled to a 252-day trading year, in percent.
func annualizedVolatilityPct(candles []marketdata.Candle) float64 {
	returns := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev <= 0 {
			continue
		}
		returns = append(returns, (candles[i].Close-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	m := mean(returns)
	var sq float64
	for _, r := range returns {
		sq += (r - m) * (r - m)
	}
	daily := math.Sqrt(sq / float64(len(returns)))
	return daily * math.Sqrt(252) * 100
}

// withinTolerance reports whether a risk level is acceptable for the
// given tolerance.
func withinTolerance(level string, tol profile.RiskTolerance) bool {
	switch tol {
	case profile.RiskHigh:
		return true
	case profile.RiskMedium:
		return level != RiskLevelHigh
	default:
		return level == RiskLevelLow
	}
}
