package research

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/validate"
)

// Peer standing labels.
const (
	StandingDiscount = "discount"
	StandingInLine   = "in line"
	StandingPremium  = "premium"
)

var peersSchema = validate.NewSchema(
	validate.Optional("maxPeers", validate.Number(), validate.IntBetween(1, 10)),
)

// PeersStep compares the ticker's earnings multiple against its sector
// peers. The step is optional: a sector with no usable peers adds
// nothing, and the workflow may skip it entirely.
type PeersStep struct {
	data marketdata.Provider
}

// NewPeersStep returns the peer comparison step.
func NewPeersStep(data marketdata.Provider) *PeersStep {
	return &PeersStep{data: data}
}

func (s *PeersStep) Definition() step.Definition {
	return step.Definition{Number: 8, Label: "Peer Comparison", Optional: true}
}

func (s *PeersStep) ValidateInputs(in step.Inputs) validate.Result {
	return peersSchema.Validate(in)
}

func (s *PeersStep) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ticker := sc.String(4, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("research: no ticker in context for step 8")
	}

	peers, err := s.data.Peers(ctx, ticker)
	if err != nil {
		return dataFailure(err), nil
	}
	if max := in.Int("maxPeers"); max > 0 && len(peers) > max {
		peers = peers[:max]
	}
	if len(peers) == 0 {
		out := step.Success(map[string]any{
			"ticker":   ticker,
			"peers":    []string{},
			"standing": StandingInLine,
		})
		out.Warn("no sector peers available for comparison")
		return out, nil
	}

	var sumPE float64
	counted := 0
	for _, peer := range peers {
		f, err := s.data.Fundamentals(ctx, peer)
		if err != nil {
			return dataFailure(err), nil
		}
		if f.PERatio > 0 {
			sumPE += f.PERatio
			counted++
		}
	}
	if counted == 0 {
		return step.Failure("no peer has a usable earnings multiple"), nil
	}
	avgPE := sumPE / float64(counted)

	ownPE := sc.Float(5, "peRatio")
	relative := ownPE / avgPE

	standing := StandingInLine
	switch {
	case relative < 0.9:
		standing = StandingDiscount
	case relative > 1.1:
		standing = StandingPremium
	}

	return step.Success(map[string]any{
		"ticker":        ticker,
		"peers":         peers,
		"peerAveragePE": round2(avgPE),
		"peRatio":       ownPE,
		"relativePE":    round2(relative),
		"standing":      standing,
	}), nil
}
