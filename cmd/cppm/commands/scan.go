package commands

import "github.com/spf13/cobra"

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan out-of-date sources and refresh the module map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Scan(cmd.Context(), c.projectOptions(cmd))
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "Also scan every referenced project")
	return cmd
}
