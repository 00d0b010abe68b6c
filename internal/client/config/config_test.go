package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = args
	t.Cleanup(func() { os.Args = orig })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setArgs(t, "booklib")
	t.Setenv("CONFIG", "")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "http://books.example:9000",
		"request_timeout": "10s",
	})
	setArgs(t, "booklib", "-c", path, "-t", "2")

	cfg := LoadConfig()

	assert.Equal(t, "http://books.example:9000", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "address and timeout", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-t", "10"},
			expected: &Config{ServerURL: "http://127.0.0.1:9090", RequestTimeout: 10 * time.Second}},
		{name: "foreign flags ignored", args: []string{"cmd", "-x", "1", "-a", "host:1"},
			expected: &Config{ServerURL: "host:1"}},
		{name: "bad timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setArgs(t, tt.args...)
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseJson(t *testing.T) {
	t.Setenv("CONFIG", "")

	t.Run("no file leaves config untouched", func(t *testing.T) {
		setArgs(t, "booklib")
		cfg := &Config{ServerURL: "keep", RequestTimeout: time.Second}
		parseJson(cfg)
		assert.Equal(t, &Config{ServerURL: "keep", RequestTimeout: time.Second}, cfg)
	})

	t.Run("CONFIG variable", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"server_url": "http://env.example"})
		t.Setenv("CONFIG", path)
		setArgs(t, "booklib")

		cfg := &Config{RequestTimeout: time.Second}
		parseJson(cfg)
		assert.Equal(t, "http://env.example", cfg.ServerURL)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		setArgs(t, "booklib", "-config", bad)

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
