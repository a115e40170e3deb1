package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
)

// BreakTimeCmd creates the breakTime command
func BreakTimeCmd(app *AppContext) *cobra.Command {
	var (
		minor      bool
		policyName string
	)

	cmd := &cobra.Command{
		Use:         "breakTime <start> <end>",
		Short:       "Work out the break owed for a shift",
		Args:        cobra.ExactArgs(2),
		Annotations: skipLoad(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := policy.VariantA
			if app.Planner != nil {
				p = app.Planner.BreakPolicy()
			}
			if cmd.Flags().Changed("policy") {
				parsed, err := policy.ParseBreakPolicy(policyName)
				if err != nil {
					return err
				}
				p = parsed
			}

			hours, err := policy.WorkHours(args[0], args[1])
			if err != nil {
				return err
			}
			app.printf("%.2f hours, %d min break (policy %s)\n", hours, policy.BreakMinutes(p, minor, hours), p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&minor, "minor", false, "Staff member is under 18")
	cmd.Flags().StringVar(&policyName, "policy", "", "Break policy, A or B (defaults to the configured one)")

	return cmd
}
