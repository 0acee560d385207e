package commands

import "github.com/spf13/cobra"

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Write ninja build plans without compiling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Plan(cmd.Context(), c.projectOptions(cmd))
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "Also scan every referenced project")
	return cmd
}
