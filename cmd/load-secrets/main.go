package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/cmd/load-secrets/commands"
	"github.com/chriswardell-glean/1password-actions/internal/config"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe every guarded buffer (the Connect token) before the process
	// exits, whatever path it takes out of run().
	defer memguard.Purge()

	if err := run(); err != nil {
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "load-secrets",
		Short: "Load 1Password secrets into pipeline outputs and environment variables",
		Long: `load-secrets resolves secret references against a 1Password Connect
server and publishes each resolved field as a pipeline output and,
optionally, an environment variable for later steps.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
		// Errors are reported once, below; commands return them unlogged.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Local config file path (optional)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewRunCommand(cfg),
		commands.NewPlanCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewLoginCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		// The logger is nil when flag parsing fails before PersistentPreRun.
		if cfg.Logger != nil {
			cfg.Logger.Error("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
