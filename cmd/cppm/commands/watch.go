package commands

import "github.com/spf13/cobra"

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [sources...]",
		Short: "Rebuild whenever a project file changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), c.buildOptions(cmd, args))
		},
	}
	addBuildFlags(cmd)
	return cmd
}
