package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Final recommendation labels.
const (
	RecommendBuy   = "buy"
	RecommendWatch = "watch"
	RecommendAvoid = "avoid"
)

var reviewSchema = validate.NewSchema(
	validate.Optional("notes", validate.String(), validate.MaxLen(2000)),
)

// ReviewStep folds every prior step's findings into a single
// recommendation. It reads only from context, so it reflects exactly
// what the session produced, including a skipped peer comparison.
type ReviewStep struct{}

// NewReviewStep returns the research review step.
func NewReviewStep() *ReviewStep {
	return &ReviewStep{}
}

func (s *ReviewStep) Definition() step.Definition {
	return step.Definition{Number: 12, Label: "Research Review"}
}

func (s *ReviewStep) ValidateInputs(in step.Inputs) validate.Result {
	return reviewSchema.Validate(in)
}

func (s *ReviewStep) Execute(_ context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 12")
	}

	var (
		points     int
		highlights []string
	)

	verdict := sc.String(7, "verdict")
	switch verdict {
	case VerdictUndervalued:
		points += 2
	case VerdictOvervalued:
		points -= 2
	}
	highlights = append(highlights, fmt.Sprintf("valuation: %s (%.1f%% upside)", verdict, sc.Float(7, "upsidePct")))

	rating := sc.String(5, "rating")
	switch rating {
	case RatingStrong:
		points += 2
	case RatingAdequate:
		points++
	case RatingWeak:
		points--
	}
	highlights = append(highlights, fmt.Sprintf("fundamentals: %s (score %.0f)", rating, sc.Float(5, "score")))

	trend := sc.String(6, "trend")
	switch trend {
	case TrendUp:
		points++
	case TrendDown:
		points--
	}
	highlights = append(highlights, fmt.Sprintf("technicals: %s", trend))

	if peerOut, ok := sc.Output(8); ok {
		standing, _ := peerOut["standing"].(string)
		switch standing {
		case StandingDiscount:
			points++
		case StandingPremium:
			points--
		}
		highlights = append(highlights, fmt.Sprintf("peers: %s relative to the sector", standing))
	} else {
		highlights = append(highlights, "peers: comparison skipped")
	}

	riskLevel := sc.String(9, "riskLevel")
	within := false
	if v, ok := sc.Value(9, "withinTolerance"); ok {
		within, _ = v.(bool)
	}
	if within {
		points++
	} else {
		points -= 2
	}
	highlights = append(highlights, fmt.Sprintf("risk: %s", riskLevel))

	recommendation := RecommendAvoid
	switch {
	case points >= 4:
		recommendation = RecommendBuy
	case points >= 1:
		recommendation = RecommendWatch
	}

	data := map[string]any{
		"ticker":         ticker,
		"companyName":    sc.String(4, "companyName"),
		"sector":         sc.String(2, "sector"),
		"recommendation": recommendation,
		"reviewScore":    points,
		"highlights":     highlights,
		"shares":         int(sc.Float(10, "shares")),
		"allocation":     sc.Float(10, "allocation"),
		"orderStatus":    sc.String(11, "status"),
	}
	if notes := in.String("notes"); notes != "" {
		data["notes"] = notes
	}
	return step.Success(data), nil
}
