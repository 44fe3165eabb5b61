// Package config resolves the action's inputs. Each input is taken from the
// first source that provides it: command-line flag, then the CI input
// environment variable (INPUT_*), then an optional local YAML file for runs
// outside the pipeline. The Connect token additionally falls back to the OS
// keyring so local runs never need the token on disk or in the shell.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
)

// Input names, as declared in the action metadata.
const (
	InputConnectServerURL   = "connect-server-url"
	InputConnectServerToken = "connect-server-token"
	InputSecretPath         = "secret-path"
	InputExportEnvVars      = "export-env-vars"
	InputFailOnNotFound     = "fail-on-not-found"
	InputRetryCount         = "retry-count"
)

// DefaultRetryCount is used when retry-count is not supplied.
const DefaultRetryCount = 5

// Config holds the runtime configuration.
type Config struct {
	Path   string // optional local YAML file
	Logger *logging.Logger

	// Flags carries raw values bound to command-line flags. Empty entries
	// fall through to the environment, the file, and the keyring.
	Flags map[string]string

	Inputs Inputs
}

// Inputs is the fully resolved, validated configuration for one run.
type Inputs struct {
	ConnectServerURL   string
	ConnectServerToken string
	SecretPath         string
	ExportEnvVars      bool
	FailOnNotFound     bool
	RetryCount         int
}

// fileInputs mirrors the local YAML file's layout.
type fileInputs struct {
	ConnectServerURL   string `yaml:"connect-server-url"`
	ConnectServerToken string `yaml:"connect-server-token"`
	SecretPath         string `yaml:"secret-path"`
	ExportEnvVars      string `yaml:"export-env-vars"`
	FailOnNotFound     string `yaml:"fail-on-not-found"`
	RetryCount         string `yaml:"retry-count"`
}

// Load resolves every input and validates the result.
func (c *Config) Load() error {
	var file fileInputs
	if c.Path != "" {
		loaded, err := loadFile(c.Path)
		if err != nil {
			return err
		}
		file = loaded
	}

	raw := map[string]string{}
	fromFile := map[string]string{
		InputConnectServerURL:   file.ConnectServerURL,
		InputConnectServerToken: file.ConnectServerToken,
		InputSecretPath:         file.SecretPath,
		InputExportEnvVars:      file.ExportEnvVars,
		InputFailOnNotFound:     file.FailOnNotFound,
		InputRetryCount:         file.RetryCount,
	}
	for name, fileValue := range fromFile {
		raw[name] = firstNonEmpty(c.Flags[name], actionInput(name), fileValue)
	}

	if raw[InputConnectServerToken] == "" {
		if token, err := TokenFromKeyring(); err == nil {
			raw[InputConnectServerToken] = token
			if c.Logger != nil {
				c.Logger.Debug("Using Connect token from the OS keyring")
			}
		}
	}

	return c.validate(raw)
}

// validate parses the raw values into typed inputs.
func (c *Config) validate(raw map[string]string) error {
	if raw[InputConnectServerURL] == "" {
		return acterrors.ConfigError{
			Field:      InputConnectServerURL,
			Message:    "the Connect server URL is required",
			Suggestion: "Set the connect-server-url input to your 1Password Connect address, e.g. https://connect.example.com:8080",
		}
	}
	if raw[InputConnectServerToken] == "" {
		return acterrors.ConfigError{
			Field:      InputConnectServerToken,
			Message:    "the Connect token is required",
			Suggestion: "Set the connect-server-token input, or store a token locally with 'load-secrets login'",
		}
	}
	if strings.TrimSpace(raw[InputSecretPath]) == "" {
		return acterrors.ConfigError{
			Field:      InputSecretPath,
			Message:    "at least one secret reference is required",
			Suggestion: "Set secret-path to one '<vault>/<item>[/<field>]' reference per line",
		}
	}

	exportEnv, err := parseBoolInput(InputExportEnvVars, raw[InputExportEnvVars])
	if err != nil {
		return err
	}
	failOnNotFound, err := parseBoolInput(InputFailOnNotFound, raw[InputFailOnNotFound])
	if err != nil {
		return err
	}

	retryCount := DefaultRetryCount
	if raw[InputRetryCount] != "" {
		retryCount, err = strconv.Atoi(raw[InputRetryCount])
		if err != nil {
			return acterrors.ConfigError{
				Field:      InputRetryCount,
				Value:      raw[InputRetryCount],
				Message:    "retry count must be an integer",
				Suggestion: "Use a whole number of attempts, e.g. retry-count: 5",
			}
		}
	}
	if retryCount < 1 {
		retryCount = 1
	}

	c.Inputs = Inputs{
		ConnectServerURL:   strings.TrimSuffix(raw[InputConnectServerURL], "/"),
		ConnectServerToken: raw[InputConnectServerToken],
		SecretPath:         raw[InputSecretPath],
		ExportEnvVars:      exportEnv,
		FailOnNotFound:     failOnNotFound,
		RetryCount:         retryCount,
	}
	return nil
}

// actionInput reads a CI-provided input. The runner exports inputs as
// INPUT_<NAME> uppercased; the underscored variant is accepted too since
// wrapper scripts commonly normalize hyphens.
func actionInput(name string) string {
	upper := strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	if v := os.Getenv("INPUT_" + upper); v != "" {
		return v
	}
	return os.Getenv("INPUT_" + strings.ReplaceAll(upper, "-", "_"))
}

// loadFile reads and schema-validates the local YAML configuration.
func loadFile(path string) (fileInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileInputs{}, acterrors.ConfigError{
				Field:      "config",
				Value:      path,
				Message:    "configuration file not found",
				Suggestion: "Create the file or drop the --config flag to rely on inputs and the keyring",
			}
		}
		return fileInputs{}, acterrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	if err := validateSchema(data); err != nil {
		return fileInputs{}, err
	}

	var file fileInputs
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fileInputs{}, acterrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid YAML: " + err.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}
	return file, nil
}

func parseBoolInput(field, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, acterrors.ConfigError{
			Field:      field,
			Value:      value,
			Message:    "expected a boolean",
			Suggestion: "Use \"true\" or \"false\"",
		}
	}
	return parsed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
