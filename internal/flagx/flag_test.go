package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	serverFlags := []string{"-a", "-g", "-storage", "-lr", "-lw", "-redis"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept, client flags dropped",
			args:    []string{"-a", ":8080", "-t", "5", "-lr", "5", "-redis", "localhost:6379"},
			allowed: serverFlags,
			want:    []string{"-a", ":8080", "-lr", "5", "-redis", "localhost:6379"},
		},
		{
			name:    "equals form",
			args:    []string{"-storage=postgres", "-x=1"},
			allowed: serverFlags,
			want:    []string{"-storage=postgres"},
		},
		{
			name:    "config flags only",
			args:    []string{"-config=booklib.yaml", "-a", "localhost", "-c", "other.json"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=booklib.yaml", "-c", "other.json"},
		},
		{
			name:    "bool flag followed by another flag takes no value",
			args:    []string{"-g", "-lw", "15"},
			allowed: serverFlags,
			want:    []string{"-g", "-lw", "15"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a"},
			allowed: serverFlags,
			want:    []string{"-a"},
		},
		{
			name:    "positional arguments ignored",
			args:    []string{"serve", "now"},
			allowed: serverFlags,
			want:    []string{},
		},
		{
			name:    "equals value that looks like a flag",
			args:    []string{"-a=-weird"},
			allowed: serverFlags,
			want:    []string{"-a=-weird"},
		},
		{
			name:    "repeated flag preserved in order",
			args:    []string{"-lr", "5", "-lr", "10"},
			allowed: serverFlags,
			want:    []string{"-lr", "5", "-lr", "10"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv(ConfigEnvName, "")

	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.yaml", ConfigFile([]string{"-config", "/path/long.yaml"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/etc/booklib.yaml")
		assert.Equal(t, "/etc/booklib.yaml", ConfigFile(nil))
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/etc/booklib.yaml")
		assert.Equal(t, "local.json", ConfigFile([]string{"-c", "local.json"}))
	})
}
