package research

import (
	"context"

	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

var profileSchema = validate.NewSchema(
	validate.Field("riskTolerance", validate.String(), validate.OneOf(profile.RiskTolerances()...)),
	validate.Field("investmentHorizonYears", validate.Number(), validate.IntBetween(1, 100)),
	validate.Field("capitalAvailable", validate.Number(), validate.Positive()),
	validate.Field("longTermGoals", validate.String(), validate.OneOf(profile.Goals()...)),
)

// ProfileStep captures the user's risk tolerance, horizon, capital and
// goals. Its outcome carries the assembled profile, which the
// orchestrator persists under the session's user id.
type ProfileStep struct{}

// NewProfileStep returns the profile definition step.
func NewProfileStep() *ProfileStep {
	return &ProfileStep{}
}

func (s *ProfileStep) Definition() step.Definition {
	return step.Definition{Number: 1, Label: "Define Investment Profile"}
}

func (s *ProfileStep) ValidateInputs(in step.Inputs) validate.Result {
	return profileSchema.Validate(in)
}

func (s *ProfileStep) Execute(_ context.Context, in step.Inputs, _ *step.Context) (*step.Outcome, error) {
	p := &profile.Profile{
		RiskTolerance: profile.RiskTolerance(in.String("riskTolerance")),
		HorizonYears:  in.Int("investmentHorizonYears"),
		Capital:       in.Float("capitalAvailable"),
		Goal:          profile.Goal(in.String("longTermGoals")),
	}

	out := step.Success(map[string]any{
		"riskTolerance":          string(p.RiskTolerance),
		"investmentHorizonYears": p.HorizonYears,
		"capitalAvailable":       p.Capital,
		"longTermGoals":          string(p.Goal),
	})
	out.Profile = p

	if p.RiskTolerance == profile.RiskHigh && p.Goal == profile.GoalCapitalPreservation {
		out.Warn("high risk tolerance sits oddly with a capital preservation goal")
	}
	return out, nil
}
