package cli

import (
	"github.com/spf13/cobra"
)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose    bool
	configPath string

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "stowpack",
		Short: "3D container loading calculator",
		Long: `Stowpack packs cargo into shipping containers using a best-fit
heuristic and serves an interactive 3D dashboard of the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")
	a.rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Path to config file (default stowpack.yaml if present)")

	a.rootCmd.AddCommand(NewServeCmd(a))
	a.rootCmd.AddCommand(NewPackCmd(a))
	a.rootCmd.AddCommand(NewExportCmd(a))
	a.rootCmd.AddCommand(NewPlansCmd(a))
	a.rootCmd.AddCommand(NewVersionCmd(a))
}
