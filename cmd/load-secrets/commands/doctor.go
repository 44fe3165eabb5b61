package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/internal/config"
	"github.com/chriswardell-glean/1password-actions/internal/connect"
	"github.com/chriswardell-glean/1password-actions/internal/request"
	"github.com/chriswardell-glean/1password-actions/internal/resolve"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check Connect server connectivity and configuration",
		Long: `Verify that the Connect server is reachable and the configuration is
usable before a pipeline run.

This command checks:
- Input validity (URL, token, secret-path grammar)
- Connect server liveness (heartbeat)
- That every referenced vault exists and is readable with the token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			harvestInputFlags(cmd, cfg)

			cfg.Logger.Info("Checking configuration...")
			if err := cfg.Load(); err != nil {
				return err
			}

			requests, err := request.Parse(cfg.Inputs.SecretPath)
			if err != nil {
				return err
			}
			cfg.Logger.Info("Configuration loaded (%d secret reference(s))", len(requests))

			client := connect.New(cfg.Inputs.ConnectServerURL, cfg.Inputs.ConnectServerToken)
			defer func() { _ = client.Close() }()

			ctx := context.Background()
			if err := client.Heartbeat(ctx); err != nil {
				return err
			}
			cfg.Logger.Info("Connect server heartbeat OK")

			vaults, err := client.ListVaults(ctx)
			if err != nil {
				return err
			}
			known := make(resolve.VaultMap, len(vaults))
			for _, v := range vaults {
				if v.Name != "" && v.ID != "" {
					known[v.Name] = v.ID
				}
			}
			cfg.Logger.Info("Token can read %d vault(s)", len(known))

			missing := 0
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VAULT\tITEM\tSTATUS")
			for _, req := range requests {
				status := "✓ vault found"
				if _, ok := known.Lookup(req.Vault); !ok {
					status = "✗ vault not found"
					missing++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", req.Vault, req.Name, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if missing > 0 {
				cfg.Logger.Warn("%d referenced vault(s) not visible to this token", missing)
				if cfg.Inputs.FailOnNotFound {
					return fmt.Errorf("%d referenced vault(s) not found", missing)
				}
			}
			return nil
		},
	}

	bindInputFlags(cmd)
	return cmd
}
