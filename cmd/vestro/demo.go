package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/research"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/store/memory"
	"github.com/anthony-okoye/vestro/workflow"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Drive one research run against the in-memory store",
	Long: `demo executes the full pipeline for a sample investor using the
built-in market data set, printing the session status after every step.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Bool("skip-peers", false, "skip the optional peer comparison step")
	rootCmd.AddCommand(demoCmd)
}

// demoInputs are the canned answers the demo investor gives each step.
// Steps absent from the map take no inputs.
var demoInputs = map[int]step.Inputs{
	1: {
		"riskTolerance":          "medium",
		"investmentHorizonYears": 10,
		"capitalAvailable":       50000,
		"longTermGoals":          "steady growth",
	},
	2:  {"sector": "technology"},
	4:  {"ticker": "NOVA"},
	7:  {"growthRatePct": 8, "discountRatePct": 12},
	11: {"orderType": "market", "quantity": 40},
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	skipPeers, _ := cmd.Flags().GetBool("skip-peers")

	st := memory.New()
	reg := step.NewRegistry()
	research.MustRegister(reg, marketdata.NewStatic())

	orch, err := workflow.NewOrchestrator(st, st, reg,
		workflow.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return err
	}

	sess, err := orch.StartWorkflow(ctx, "demo-investor")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "session %s started for %s\n\n", sess.ID, sess.UserID)

	total := orch.TotalSteps()
	var finalData map[string]any

	for n := 1; n <= total; n++ {
		def, _ := reg.Definition(n)

		if skipPeers && def.Optional {
			if _, err := orch.SkipOptionalStep(ctx, sess.ID, n); err != nil {
				return err
			}
			fmt.Fprintf(out, "step %2d/%d  %-26s skipped\n", n, total, def.Label)
			continue
		}

		inputs := demoInputs[n]
		if inputs == nil {
			inputs = step.Inputs{}
		}
		outcome, err := orch.ExecuteStep(ctx, sess.ID, n, inputs)
		if err != nil {
			return err
		}
		if !outcome.Success {
			return fmt.Errorf("step %d rejected: %v", n, outcome.Errors)
		}

		status, err := orch.GetWorkflowStatus(ctx, sess.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "step %2d/%d  %-26s ok  progress %3d%%\n", n, total, def.Label, status.Progress)
		for _, w := range outcome.Warnings {
			fmt.Fprintf(out, "          warning: %s\n", w)
		}
		if n == total {
			finalData = outcome.Data
		}
	}

	fmt.Fprintln(out)
	if rec, ok := finalData["recommendation"].(string); ok {
		fmt.Fprintf(out, "recommendation: %s\n", rec)
	}
	if highlights, ok := finalData["highlights"].([]string); ok {
		for _, h := range highlights {
			fmt.Fprintf(out, "  - %s\n", h)
		}
	}
	return nil
}
