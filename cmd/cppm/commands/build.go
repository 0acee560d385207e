package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/cppm/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [sources...]",
		Short: "Build the project, or only the given sources",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Build(cmd.Context(), c.buildOptions(cmd, args))
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().Bool("plan", false, "Write the ninja build plans before compiling")
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("recursive", "r", false, "Also build every referenced project")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent compiles (0 means one per CPU)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().String("metrics-file", "", "Write build metrics in text exposition format to this file")
}

func (c *CLI) buildOptions(cmd *cobra.Command, args []string) app.BuildOptions {
	recursive, _ := cmd.Flags().GetBool("recursive")
	jobs, _ := cmd.Flags().GetInt("jobs")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	plan, _ := cmd.Flags().GetBool("plan")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.BuildOptions{
		Dir:         c.dir,
		Targets:     args,
		Recursive:   recursive,
		Jobs:        jobs,
		Plan:        plan,
		MetricsFile: metricsFile,
		OutputMode:  outputMode,
	}
}
