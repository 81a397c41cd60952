package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, ProviderLocal, cfg.IdentityProvider)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "demo-user-a-id", cfg.DefaultTargetID)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"store":"memory","request_timeout":"3s","cache_size":0}`)

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.CacheSize)
	// untouched keys keep their defaults
	assert.Equal(t, "datashare.db", cfg.DatabaseDSN)
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "cfg.toml", `
identity_provider = "remote"
identity_api_key = "k"
request_timeout = "1m"
log_format = "json"
`)

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, ProviderRemote, cfg.IdentityProvider)
	assert.Equal(t, "k", cfg.IdentityAPIKey)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), env(nil))
	require.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"store":`), env(nil))
	require.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", `store = `), env(nil))
	require.Error(t, err)
}

func TestLoadEnv_OverridesFile(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"store":"memory","log_level":"info"}`)

	cfg, err := Load(path, env(map[string]string{
		"DATASHARE_STORE":           "none",
		"DATASHARE_CACHE_SIZE":      "7",
		"DATASHARE_REQUEST_TIMEOUT": "250ms",
	}))
	require.NoError(t, err)
	assert.Equal(t, StoreNone, cfg.Store)
	assert.Equal(t, 7, cfg.CacheSize)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnv_BadValues(t *testing.T) {
	_, err := Load("", env(map[string]string{"DATASHARE_CACHE_SIZE": "lots"}))
	require.Error(t, err)

	_, err = Load("", env(map[string]string{"DATASHARE_REQUEST_TIMEOUT": "soon"}))
	require.Error(t, err)
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--store", "memory", "--log-level=debug"}))

	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "datashare.db", cfg.DatabaseDSN)
	assert.Equal(t, ProviderLocal, cfg.IdentityProvider)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown store", func(c *Config) { c.Store = "redis" }, true},
		{"sqlite without dsn", func(c *Config) { c.DatabaseDSN = "" }, true},
		{"unknown provider", func(c *Config) { c.IdentityProvider = "ldap" }, true},
		{"remote without key", func(c *Config) { c.IdentityProvider = ProviderRemote }, true},
		{"remote with key", func(c *Config) { c.IdentityProvider = ProviderRemote; c.IdentityAPIKey = "k" }, false},
		{"local without store", func(c *Config) { c.Store = StoreNone }, true},
		{"remote without store", func(c *Config) {
			c.Store = StoreNone
			c.IdentityProvider = ProviderRemote
			c.IdentityAPIKey = "k"
		}, false},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
