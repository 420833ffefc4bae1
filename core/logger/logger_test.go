package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureAll(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	SetColor(false)
	t.Cleanup(func() {
		SetWriterForAll(os.Stderr)
		SetColor(true)
		SetVerbose(false)
	})
	return &buf
}

func TestDebugRequiresVerbose(t *testing.T) {
	buf := captureAll(t)

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "DEBUG shown 2")
}

func TestLevelsAreLabelled(t *testing.T) {
	buf := captureAll(t)

	Info("parsed %s", "lib.rs")
	Warn("careful")
	Error("broken")
	GetLogFromLevel(INFO)("via level")

	out := buf.String()
	assert.Contains(t, out, "INFO  parsed lib.rs")
	assert.Contains(t, out, "WARN  careful")
	assert.Contains(t, out, "ERROR broken")
	assert.Contains(t, out, "INFO  via level")
	assert.NotContains(t, out, ColorReset)
}

func TestOpenLogFile(t *testing.T) {
	captureAll(t)
	path := filepath.Join(t.TempDir(), "ruml.log")

	f, err := OpenLogFile(path)
	require.NoError(t, err)
	Info("to file")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestAddWriter_TeesSingleLevel(t *testing.T) {
	buf := captureAll(t)
	var warnings bytes.Buffer

	AddWriter(WARN, &warnings)
	Info("info only")
	Warn("both")

	assert.Contains(t, buf.String(), "info only")
	assert.Contains(t, buf.String(), "both")
	assert.NotContains(t, warnings.String(), "info only")
	assert.Contains(t, warnings.String(), "WARN  both")
}

func TestSetWriter_IgnoresUnknownLevel(t *testing.T) {
	buf := captureAll(t)

	SetWriter(LogLevel(42), os.Stdout)
	GetLogFromLevel(LogLevel(42))("dropped")
	assert.Empty(t, buf.String())
}
