// Package commands implements the CLI commands for the cppm build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/cppm/internal/app"
	"go.trai.ch/cppm/internal/build"
)

// CLI represents the command line interface for cppm.
type CLI struct {
	app     Application
	log     LogConfigurer
	rootCmd *cobra.Command

	dir     string
	json    bool
	verbose bool
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Scan(ctx context.Context, opts app.ProjectOptions) error
	Plan(ctx context.Context, opts app.ProjectOptions) error
	Clean(ctx context.Context, opts app.ProjectOptions) error
	Watch(ctx context.Context, opts app.BuildOptions) error
}

// LogConfigurer is implemented by loggers that can switch format and level.
type LogConfigurer interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app. The logger is
// reconfigured from the global flags when it implements LogConfigurer.
func New(a Application, logger any) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cppm",
		Short:         "An incremental build tool for C++20 modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	if lc, ok := logger.(LogConfigurer); ok {
		c.log = lc
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.dir, "dir", "C", ".", "Run as if cppm was started in this directory")
	flags.BoolVar(&c.json, "log-json", false, "Emit logs as JSON")
	flags.BoolVar(&c.verbose, "verbose", false, "Enable debug logging")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if c.log != nil {
			c.log.SetJSON(c.json)
			c.log.SetVerbose(c.verbose)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) projectOptions(cmd *cobra.Command) app.ProjectOptions {
	recursive, _ := cmd.Flags().GetBool("recursive")
	return app.ProjectOptions{Dir: c.dir, Recursive: recursive}
}
