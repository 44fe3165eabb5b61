package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
)

// configSchema constrains the local YAML file to the declared inputs. All
// values are strings, matching how the CI runner delivers inputs.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "connect-server-url":   {"type": "string"},
    "connect-server-token": {"type": "string"},
    "secret-path":          {"type": "string"},
    "export-env-vars":      {"type": "string", "enum": ["true", "false"]},
    "fail-on-not-found":    {"type": "string", "enum": ["true", "false"]},
    "retry-count":          {"type": "string", "pattern": "^[0-9]+$"}
  }
}`

// validateSchema checks the YAML document against the config schema before
// it is unmarshaled, so typos in key names fail loudly instead of being
// silently ignored.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return acterrors.ConfigError{
			Field:   "config",
			Message: "invalid YAML: " + err.Error(),
		}
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("validating config schema: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return acterrors.ConfigError{
			Field:      "config",
			Message:    "configuration does not match the expected layout",
			Suggestion: strings.Join(problems, "; "),
		}
	}
	return nil
}
