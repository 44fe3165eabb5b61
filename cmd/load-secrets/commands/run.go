package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/internal/actions"
	"github.com/chriswardell-glean/1password-actions/internal/config"
	"github.com/chriswardell-glean/1password-actions/internal/connect"
	"github.com/chriswardell-glean/1password-actions/internal/resolve"
)

func NewRunCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve the configured secrets and publish them",
		Long: `Run resolves every reference in secret-path against the Connect server
and publishes each resolved field as a pipeline output (and, with
export-env-vars, an environment variable).

The whole resolution cycle is retried with exponential backoff. With
fail-on-not-found unset, missing vaults, items and fields are skipped
with a warning and the run still succeeds.

Examples:
  # In a pipeline step (inputs come from the environment)
  load-secrets run

  # Locally
  load-secrets run \
    --connect-server-url https://connect.example.com:8080 \
    --secret-path 'app/Database/password db_pass!'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			harvestInputFlags(cmd, cfg)
			if err := cfg.Load(); err != nil {
				return err
			}

			client := connect.New(cfg.Inputs.ConnectServerURL, cfg.Inputs.ConnectServerToken)
			defer func() { _ = client.Close() }()

			emitter := actions.NewEmitter(cfg.Logger, cfg.Inputs.ExportEnvVars)
			orchestrator := resolve.NewOrchestrator(
				client,
				emitter,
				cfg.Logger,
				cfg.Inputs.SecretPath,
				cfg.Inputs.FailOnNotFound,
				cfg.Inputs.RetryCount,
			)

			if err := orchestrator.Run(context.Background()); err != nil {
				return err
			}

			cfg.Logger.Info("Published %d output(s)", emitter.Count())
			return nil
		},
	}

	bindInputFlags(cmd)
	return cmd
}
