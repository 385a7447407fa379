package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/confkit/cmd/check"
	"github.com/agentstation/confkit/cmd/confkit/cmd/export"
	"github.com/agentstation/confkit/cmd/confkit/cmd/serve"
	"github.com/agentstation/confkit/cmd/confkit/cmd/sessions"
	"github.com/agentstation/confkit/cmd/confkit/cmd/speakers"
	synccmd "github.com/agentstation/confkit/cmd/confkit/cmd/sync"
	"github.com/agentstation/confkit/cmd/confkit/cmd/version"
	"github.com/agentstation/confkit/internal/server"
)

// Execute runs the confkit CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "confkit",
		Short:   "Conference content toolkit",
		Version: a.version,
		Long: `confkit keeps the sessions and speakers of a conference in sync with its
call-for-papers platform while preserving the edits made by the organizers.

Synchronized documents keep the source values and a sparse patch of local
overrides; the effective value merges both field by field.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "content", Title: "Content Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.confkit.yaml or $HOME/.confkit.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("confkit {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" && configFile != a.config.ConfigFile {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.serveSettings))
	rootCmd.AddCommand(check.NewCommand(a))

	rootCmd.AddCommand(sessions.NewCommand(a))
	rootCmd.AddCommand(speakers.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}

// serveSettings reads the server settings once flags and config are final.
func (a *App) serveSettings() serve.Settings {
	cfg := server.DefaultConfig()
	cfg.Host = a.config.Server.Host
	cfg.Port = a.config.Server.Port
	cfg.PathPrefix = a.config.Server.Prefix
	cfg.MetricsEnabled = a.config.Server.Metrics
	cfg.Accounts = a.config.Users
	return serve.Settings{
		Server:   cfg,
		AutoSync: a.config.Sync.Auto,
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
