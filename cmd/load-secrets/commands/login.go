package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriswardell-glean/1password-actions/internal/config"
	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var (
		token  string
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the Connect token in the OS keyring",
		Long: `Store a 1Password Connect API token in the operating system keyring so
local runs do not need the token in the environment or on disk.

Examples:
  load-secrets login                 # prompt for the token
  load-secrets login --token <tok>   # non-interactive
  load-secrets login --remove        # forget the stored token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove {
				if err := config.DeleteToken(); err != nil {
					return acterrors.UserError{
						Message: "Failed to remove the stored token",
						Details: err.Error(),
						Err:     err,
					}
				}
				cfg.Logger.Info("Removed the stored Connect token")
				return nil
			}

			if token == "" {
				fmt.Fprint(os.Stderr, "Connect token: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return acterrors.UserError{
						Message:    "Failed to read the token",
						Details:    err.Error(),
						Suggestion: "Pass the token with --token instead",
						Err:        err,
					}
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return acterrors.UserError{
					Message:    "No token provided",
					Suggestion: "Paste the Connect API token at the prompt or pass --token",
				}
			}

			if err := config.StoreToken(token); err != nil {
				return acterrors.UserError{
					Message:    "Failed to store the token in the OS keyring",
					Details:    err.Error(),
					Suggestion: "Check that a keyring service is available (Keychain, Secret Service, or Credential Manager)",
					Err:        err,
				}
			}
			cfg.Logger.Info("Stored the Connect token in the OS keyring")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Connect API token (prompted for when omitted)")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the stored token")
	return cmd
}
