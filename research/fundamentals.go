package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Fundamental rating labels.
const (
	RatingStrong   = "strong"
	RatingAdequate = "adequate"
	RatingWeak     = "weak"
)

var fundamentalsSchema = validate.NewSchema()

// FundamentalsStep pulls the selected ticker's fundamentals and scores
// them on a fixed 0-100 scale.
type FundamentalsStep struct {
	data marketdata.Provider
}

// NewFundamentalsStep returns the fundamental analysis step.
func NewFundamentalsStep(data marketdata.Provider) *FundamentalsStep {
	return &FundamentalsStep{data: data}
}

func (s *FundamentalsStep) Definition() step.Definition {
	return step.Definition{Number: 5, Label: "Fundamental Analysis"}
}

func (s *FundamentalsStep) ValidateInputs(in step.Inputs) validate.Result {
	return fundamentalsSchema.Validate(in)
}

func (s *FundamentalsStep) Execute(ctx context.Context, _ step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 5")
	}

	f, err := s.data.Fundamentals(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}

	score := scoreFundamentals(f)
	rating := RatingWeak
	switch {
	case score >= 70:
		rating = RatingStrong
	case score >= 50:
		rating = RatingAdequate
	}

	out := step.Success(map[string]any{
		"ticker":           f.Symbol,
		"peRatio":          f.PERatio,
		"eps":              f.EPS,
		"revenueGrowthPct": f.RevenueGrowthPct,
		"debtToEquity":     f.DebtToEquity,
		"dividendYieldPct": f.DividendYieldPct,
		"score":            score,
		"rating":           rating,
	})
	if f.DebtToEquity > 1.0 {
		out.Warn(fmt.Sprintf("debt to equity of %.2f is above 1.0", f.DebtToEquity))
	}
	if f.EPS <= 0 {
		out.Warn("earnings per share is non-positive")
	}
	return out, nil
}

// scoreFundamentals maps raw metrics to 0-100. The weights mirror a
// plain quality checklist: cheap earnings, growing revenue, low
// leverage, some payout.
func scoreFundamentals(f *marketdata.Fundamentals) int {
	score := 50

	switch {
	case f.PERatio <= 0:
		score -= 20
	case f.PERatio < 20:
		score += 15
	case f.PERatio > 35:
		score -= 10
	}

	switch {
	case f.RevenueGrowthPct > 10:
		score += 15
	case f.RevenueGrowthPct < 3:
		score -= 10
	}

	switch {
	case f.DebtToEquity < 0.5:
		score += 10
	case f.DebtToEquity > 1.0:
		score -= 10
	}

	if f.DividendYieldPct > 2 {
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
