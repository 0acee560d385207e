package commands

import "github.com/spf13/cobra"

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove intermediate files and build artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), c.projectOptions(cmd))
		},
	}
	cmd.Flags().BoolP("recursive", "r", false, "Also clean every referenced project")
	return cmd
}
