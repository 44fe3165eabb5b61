package commands

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriswardell-glean/1password-actions/internal/config"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
)

// clearActionInputs unsets every action input and pipeline sink variable so
// tests control exactly what the commands see.
func clearActionInputs(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INPUT_CONNECT-SERVER-URL", "INPUT_CONNECT_SERVER_URL",
		"INPUT_CONNECT-SERVER-TOKEN", "INPUT_CONNECT_SERVER_TOKEN",
		"INPUT_SECRET-PATH", "INPUT_SECRET_PATH",
		"INPUT_EXPORT-ENV-VARS", "INPUT_EXPORT_ENV_VARS",
		"INPUT_FAIL-ON-NOT-FOUND", "INPUT_FAIL_ON_NOT_FOUND",
		"INPUT_RETRY-COUNT", "INPUT_RETRY_COUNT",
		"GITHUB_OUTPUT", "GITHUB_ENV",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func testCommandConfig() *config.Config {
	return &config.Config{Logger: logging.New(false, true)}
}

func TestHarvestInputFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	bindInputFlags(cmd)
	require.NoError(t, cmd.Flags().Set(config.InputConnectServerURL, "https://flag.example.com"))
	require.NoError(t, cmd.Flags().Set(config.InputRetryCount, "7"))

	cfg := &config.Config{}
	harvestInputFlags(cmd, cfg)

	assert.Equal(t, "https://flag.example.com", cfg.Flags[config.InputConnectServerURL])
	assert.Equal(t, "7", cfg.Flags[config.InputRetryCount])

	_, ok := cfg.Flags[config.InputSecretPath]
	assert.False(t, ok, "untouched flags are not harvested, so lower-precedence sources can fill them")
}
