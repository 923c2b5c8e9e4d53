package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := New(logFile, "debug")
	require.NoError(t, err)

	log.Info("booking id=%d created", 42)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "booking id=42 created")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

func TestNew_EmptyLevelDefaultsToInfo(t *testing.T) {
	lvl, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", lvl.String())
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Warn("ignored %s", "message")
	assert.NoError(t, log.Close())
}
