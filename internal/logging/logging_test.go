package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log, closeFn, err := Setup(false, "", &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	assert.NoError(t, closeFn())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log, _, err = Setup(true, "", &buf)
	require.NoError(t, err)
	log.Debug("detail", "session", 3)
	assert.Contains(t, buf.String(), "session=3")
}

func TestSetupFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "inferno.log")
	var buf bytes.Buffer
	log, closeFn, err := Setup(true, path, &buf)
	require.NoError(t, err)
	log.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}

func TestSetupBadPath(t *testing.T) {
	_, _, err := Setup(false, filepath.Join(t.TempDir(), "missing", "x.log"), nil)
	assert.Error(t, err)
}
