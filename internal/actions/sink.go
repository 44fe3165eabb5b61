// Package actions publishes resolved values to the CI pipeline: named step
// outputs, exported environment variables, and the log mask that keeps
// secret values out of plain logs.
package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
)

// Emitter hands resolved values to the pipeline's output and environment
// sinks. Every value is masked before it is written anywhere, so a value
// can never surface in plain logs even if a later write fails.
//
// Re-emitting the same name/value pair is harmless: the pipeline keeps the
// last write, and identical re-emission across retry attempts is expected.
type Emitter struct {
	logger    *logging.Logger
	exportEnv bool

	// commands receives workflow commands (masking, legacy set-output);
	// the pipeline runner scans stdout for them.
	commands io.Writer

	outputPath string
	envPath    string

	count int
}

// NewEmitter builds an emitter wired to the pipeline's sink files, as named
// by the GITHUB_OUTPUT and GITHUB_ENV environment variables. exportEnv
// additionally exports each output as an environment variable for the
// remainder of the pipeline.
func NewEmitter(logger *logging.Logger, exportEnv bool) *Emitter {
	return &Emitter{
		logger:     logger,
		exportEnv:  exportEnv,
		commands:   os.Stdout,
		outputPath: os.Getenv("GITHUB_OUTPUT"),
		envPath:    os.Getenv("GITHUB_ENV"),
	}
}

// Emit publishes one resolved value under the given output name.
func (e *Emitter) Emit(name, value string) error {
	e.mask(value)

	if err := e.writeOutput(name, value); err != nil {
		return err
	}

	if e.exportEnv {
		if err := e.writeEnv(name, value); err != nil {
			return err
		}
	}

	e.count++
	e.logger.Debug("Published output %s (value %v)", name, logging.Secret(value))
	return nil
}

// Count returns how many values have been published, counting re-emissions.
func (e *Emitter) Count() int {
	return e.count
}

// mask registers the value with the runner's log scrubber.
func (e *Emitter) mask(value string) {
	fmt.Fprintf(e.commands, "::add-mask::%s\n", escapeData(value))
}

// writeOutput appends the pair to the step-output file, falling back to the
// legacy set-output workflow command on runners that predate the file.
func (e *Emitter) writeOutput(name, value string) error {
	if e.outputPath == "" {
		fmt.Fprintf(e.commands, "::set-output name=%s::%s\n", escapeProperty(name), escapeData(value))
		return nil
	}
	return appendKeyValue(e.outputPath, name, value)
}

// writeEnv appends the pair to the exported-environment file. There is no
// workflow-command fallback for environment variables, so a missing file is
// a warning, not a failure.
func (e *Emitter) writeEnv(name, value string) error {
	if e.envPath == "" {
		e.logger.Warn("GITHUB_ENV is not set; skipping environment export of %s", name)
		return nil
	}
	return appendKeyValue(e.envPath, name, value)
}

// appendKeyValue appends one name/value pair to a sink file, using the
// heredoc form for values that span lines.
func appendKeyValue(path, name, value string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return acterrors.UserError{
			Message:    fmt.Sprintf("Failed to open pipeline sink file for output '%s'", name),
			Details:    err.Error(),
			Suggestion: "Check that the runner's workspace is writable",
			Err:        err,
		}
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(encodeKeyValue(name, value)); err != nil {
		return acterrors.UserError{
			Message: fmt.Sprintf("Failed to write output '%s'", name),
			Details: err.Error(),
			Err:     err,
		}
	}
	return nil
}

// encodeKeyValue renders a pair in the sink-file syntax.
func encodeKeyValue(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return fmt.Sprintf("%s=%s\n", name, value)
	}
	delimiter := "ghadelimiter_" + uuid.NewString()
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
}

// escapeData encodes the characters that terminate a workflow command's
// data segment.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeProperty additionally encodes the property delimiters.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
