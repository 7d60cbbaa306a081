package events

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log
}

func TestEnvelopeFormat(t *testing.T) {
	var buf bytes.Buffer
	e := New(quietLogger(), WithEnvelope(&buf))

	e.Warn("targetSkipped", "nonexistent/path")

	line := strings.TrimSuffix(buf.String(), "\n")
	require.True(t, strings.HasPrefix(line, "POLYLINT-START"), "got %q", line)
	require.True(t, strings.HasSuffix(line, "POLYLINT-END"), "got %q", line)

	payload := strings.TrimSuffix(strings.TrimPrefix(line, "POLYLINT-START"), "POLYLINT-END")
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))
	assert.Equal(t, "targetSkipped", ev.Key)
	assert.Equal(t, []string{"nonexistent/path"}, ev.Args)
	assert.Equal(t, "warning", ev.Type)
	assert.NotZero(t, ev.Time)
}

func TestDebugSuppressedWithoutVerbose(t *testing.T) {
	var buf bytes.Buffer
	e := New(quietLogger(), WithEnvelope(&buf))

	e.Debug("engineSkippedNoRules", "eslint")
	assert.Empty(t, buf.String())

	verbose := New(quietLogger(), WithEnvelope(&buf), WithVerbose(true))
	verbose.Debug("engineSkippedNoRules", "eslint")
	assert.Contains(t, buf.String(), "engineSkippedNoRules")
}

func TestLoggerMirrorsEvents(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(&out)
	log.SetLevel(logrus.InfoLevel)

	New(log).Info("runStarted", "abc123")
	assert.Contains(t, out.String(), "runStarted")
	assert.Contains(t, out.String(), "abc123")
}

func TestNilLoggerIsSafe(t *testing.T) {
	e := New(nil)
	assert.NotPanics(t, func() { e.Info("ok") })
}
