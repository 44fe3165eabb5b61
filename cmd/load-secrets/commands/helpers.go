package commands

import (
	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/internal/config"
)

// inputFlagNames are the action inputs exposed as command-line flags, for
// running outside the pipeline.
var inputFlagNames = []string{
	config.InputConnectServerURL,
	config.InputConnectServerToken,
	config.InputSecretPath,
	config.InputExportEnvVars,
	config.InputFailOnNotFound,
	config.InputRetryCount,
}

// bindInputFlags registers one string flag per action input.
func bindInputFlags(cmd *cobra.Command) {
	cmd.Flags().String(config.InputConnectServerURL, "", "1Password Connect server URL")
	cmd.Flags().String(config.InputConnectServerToken, "", "1Password Connect API token")
	cmd.Flags().String(config.InputSecretPath, "", "Secret references, one '<vault>/<item>[/<field>] [<output>[!]]' per line")
	cmd.Flags().String(config.InputExportEnvVars, "", "Also export each output as an environment variable (true/false)")
	cmd.Flags().String(config.InputFailOnNotFound, "", "Treat missing vaults, items and fields as fatal (true/false)")
	cmd.Flags().String(config.InputRetryCount, "", "Maximum resolution attempts")
}

// harvestInputFlags copies explicitly set flag values into the config so
// they take precedence over environment inputs and the config file.
func harvestInputFlags(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Flags == nil {
		cfg.Flags = make(map[string]string, len(inputFlagNames))
	}
	for _, name := range inputFlagNames {
		if cmd.Flags().Changed(name) {
			cfg.Flags[name], _ = cmd.Flags().GetString(name)
		}
	}
}
