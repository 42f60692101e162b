package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  driver: memory
jwt:
  secret: file-secret
app:
  timezone: Europe/Istanbul
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.Equal(t, "Europe/Istanbul", cfg.Location().String())
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: memory\n")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is required")
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: mysql\njwt:\n  secret: s\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestLoadConfig_RejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: memory\njwt:\n  secret: s\napp:\n  timezone: Mars/Olympus\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestApplyEnv_Kinds(t *testing.T) {
	var target struct {
		Name    string   `env:"NAME"`
		Count   int      `env:"COUNT"`
		Ratio   float64  `env:"RATIO"`
		On      bool     `env:"ON"`
		Origins []string `env:"ORIGINS"`
		Nested  struct {
			Value string `env:"NESTED"`
		}
	}

	env := map[string]string{
		"NAME":    " vax ",
		"COUNT":   "7",
		"RATIO":   "0.5",
		"ON":      "true",
		"ORIGINS": "a, b,,c",
		"NESTED":  "inner",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	require.NoError(t, applyEnv(reflect.ValueOf(&target), lookup))
	assert.Equal(t, "vax", target.Name)
	assert.Equal(t, 7, target.Count)
	assert.Equal(t, 0.5, target.Ratio)
	assert.True(t, target.On)
	assert.Equal(t, []string{"a", "b", "c"}, target.Origins)
	assert.Equal(t, "inner", target.Nested.Value)
}

func TestApplyEnv_InvalidInteger(t *testing.T) {
	var target struct {
		Count int `env:"COUNT"`
	}
	lookup := func(string) (string, bool) { return "many", true }

	err := applyEnv(reflect.ValueOf(&target), lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COUNT")
}
