package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCapturedLogger(debug bool, annotate bool) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := &Logger{debug: debug, noColor: true, annotate: annotate, out: buf}
	return l, buf
}

func TestLoggerPlainOutput(t *testing.T) {
	l, buf := newCapturedLogger(false, false)

	l.Info("loaded %d secrets", 3)
	l.Warn("vault %s not found", "ghost")
	l.Error("boom")

	out := buf.String()
	assert.Contains(t, out, "✓ loaded 3 secrets")
	assert.Contains(t, out, "⚠ vault ghost not found")
	assert.Contains(t, out, "✗ boom")
}

func TestLoggerDebugSuppressed(t *testing.T) {
	l, buf := newCapturedLogger(false, false)
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l, buf = newCapturedLogger(true, false)
	l.Debug("shown")
	assert.Contains(t, buf.String(), "[DEBUG] shown")
}

func TestLoggerAnnotations(t *testing.T) {
	l, buf := newCapturedLogger(true, true)

	l.Warn("vault missing")
	l.Error("run failed")
	l.Debug("detail")

	out := buf.String()
	assert.Contains(t, out, "::warning::vault missing\n")
	assert.Contains(t, out, "::error::run failed\n")
	assert.Contains(t, out, "::debug::detail\n")
}

func TestLoggerAnnotationEscaping(t *testing.T) {
	l, buf := newCapturedLogger(false, true)

	l.Warn("line one\nline two % done")
	assert.Contains(t, buf.String(), "::warning::line one%0Aline two %25 done\n")
}

func TestSecretNeverPrints(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	assert.NotContains(t, fmt.Sprintf("%v %s %#v", s, s, s), "hunter2")
}

func TestRedact(t *testing.T) {
	out := Redact("token=abcd1234 other=ok", []string{"abcd1234", ""})
	assert.Equal(t, "token=[REDACTED] other=ok", out)

	// Trivially short values are left alone to avoid mangling output
	out = Redact("x=ab", []string{"ab"})
	assert.Equal(t, "x=ab", out)
}
