package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable applyEnvOverrides reads
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "MAX_BODY_BYTES", "PEER_URL", "PEER_TIMEOUT_SECONDS", "PEER_RATE_LIMIT",
		"PEER_TOKEN", "STORAGE_TYPE", "POSTGRES_DSN", "LOCAL_DB_PATH", "REDIS_ADDR",
		"REDIS_PASSWORD", "NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE",
		"LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, "http://localhost:8080", cfg.Peer.URL)
	assert.Equal(t, 10*time.Second, cfg.Peer.Timeout)
	assert.Equal(t, 5.0, cfg.Peer.RateLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9100"
storage:
  type: sqlite
  local_path: /tmp/insight.db
peer:
  url: http://go-service:8080
  timeout: 3s
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "/tmp/insight.db", cfg.Storage.LocalPath)
	assert.Equal(t, "http://go-service:8080", cfg.Peer.URL)
	assert.Equal(t, 3*time.Second, cfg.Peer.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Peer.Burst)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
}

func TestLoad_EnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "peer:\n  url: http://from-file:8080\nstorage:\n  type: bolt\n")

	t.Setenv("CODEINSIGHT_STORAGE_TYPE", "redis")
	t.Setenv("PEER_URL", "http://from-env:8080")
	t.Setenv("PEER_TOKEN", "secret-token-value")
	t.Setenv("PEER_TIMEOUT_SECONDS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "http://from-env:8080", cfg.Peer.URL)
	assert.Equal(t, "secret-token-value", cfg.Peer.Token)
	assert.Equal(t, 2*time.Second, cfg.Peer.Timeout)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

type fakeTokens struct {
	available bool
	token     string
}

func (f fakeTokens) IsAvailable() bool             { return f.available }
func (f fakeTokens) GetPeerToken() (string, error) { return f.token, nil }

func TestApplyEnvOverrides_KeychainToken(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	applyEnvOverrides(cfg, fakeTokens{available: true, token: "from-keychain"})
	assert.Empty(t, cfg.Peer.Token, "keychain is consulted only when use_keychain is set")

	cfg.Peer.UseKeychain = true
	applyEnvOverrides(cfg, fakeTokens{available: true, token: "from-keychain"})
	assert.Equal(t, "from-keychain", cfg.Peer.Token)

	t.Setenv("PEER_TOKEN", "from-env")
	applyEnvOverrides(cfg, fakeTokens{available: true, token: "from-keychain"})
	assert.Equal(t, "from-env", cfg.Peer.Token)

	cfg = Default()
	cfg.Peer.UseKeychain = true
	t.Setenv("PEER_TOKEN", "")
	applyEnvOverrides(cfg, fakeTokens{available: false, token: "ignored"})
	assert.Empty(t, cfg.Peer.Token)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".codeinsight/db"), expandPath("~/.codeinsight/db"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.Equal(t, "", expandPath(""))
}

func TestYAML_MasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.Peer.Token = "0123456789abcdef"
	cfg.Graph.Neo4jPassword = "short"
	cfg.Storage.PostgresDSN = "postgres://insight:hunter2@db:5432/insight"

	out, err := cfg.YAML()
	require.NoError(t, err)

	assert.Contains(t, out, "token: 0123...cdef")
	assert.Contains(t, out, "neo4j_password: '***'")
	assert.Contains(t, out, "postgres://insight:***@db:5432/insight")
	assert.NotContains(t, out, "hunter2")

	// the receiver is not modified
	assert.Equal(t, "0123456789abcdef", cfg.Peer.Token)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Addr = ":7000"
	cfg.Storage.Type = StorageBolt
	cfg.Peer.RateLimit = 2.5
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", loaded.Server.Addr)
	assert.Equal(t, StorageBolt, loaded.Storage.Type)
	assert.Equal(t, 2.5, loaded.Peer.RateLimit)
	assert.Equal(t, cfg.Peer.Timeout, loaded.Peer.Timeout)
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"host=db user=x password=y", "host=db user=x password=y"},
		{"postgres://user@db/x", "postgres://user@db/x"},
		{"postgres://user:pw@db/x", "postgres://user:***@db/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskDSN(tt.in))
	}
}
