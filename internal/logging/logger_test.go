package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewLogger_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: INFO, JSONFormat: true, Output: &buf})
	require.NoError(t, err)

	logger.With("component", "server").Info("request handled", "status", 200)
	logger.Debug("hidden below level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "request handled", entry["msg"])
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "codeinsight.log")
	logger, err := NewLogger(Config{Level: DEBUG, OutputFile: path, Output: &bytes.Buffer{}})
	require.NoError(t, err)

	logger.Debug("scan finished", "entities", 4)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan finished")
	assert.Contains(t, string(data), "entities=4")
}

func TestRotateIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0644))

	logger, err := NewLogger(Config{OutputFile: path, MaxSize: 32, Output: &bytes.Buffer{}})
	require.NoError(t, err)
	defer logger.Close()

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, backup, 64)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing happens")
	assert.NotNil(t, logger.Slog())
	assert.NoError(t, logger.Close())
}
