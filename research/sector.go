package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

var sectorSchema = validate.NewSchema(
	validate.Field("sector", validate.String(), validate.NonEmpty()),
)

// SectorStep pins the session to one market sector. The chosen sector
// scopes the screening universe for the rest of the run.
type SectorStep struct {
	data marketdata.Provider
}

// NewSectorStep returns the sector selection step.
func NewSectorStep(data marketdata.Provider) *SectorStep {
	return &SectorStep{data: data}
}

func (s *SectorStep) Definition() step.Definition {
	return step.Definition{Number: 2, Label: "Select Market Sector"}
}

func (s *SectorStep) ValidateInputs(in step.Inputs) validate.Result {
	return sectorSchema.Validate(in)
}

func (s *SectorStep) Execute(ctx context.Context, in step.Inputs, _ *step.Context) (*step.Outcome, error) {
	sectors, err := s.data.Sectors(ctx)
	if err != nil {
		return dataFailure(err), nil
	}

	want := strings.ToLower(strings.TrimSpace(in.String("sector")))
	for _, name := range sectors {
		if name == want {
			return step.Success(map[string]any{"sector": name}), nil
		}
	}
	return step.Failure(fmt.Sprintf("sector %q is not available; choose one of: %s",
		want, strings.Join(sectors, ", "))), nil
}
