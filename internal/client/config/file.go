package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/datashare/internal/timex"
)

// fileConfig is the on-disk layout, shared by JSON and TOML. Pointer fields
// tell "absent" apart from "zero" so a file only overrides what it names.
type fileConfig struct {
	Store            *string         `json:"store" toml:"store"`
	DatabaseDSN      *string         `json:"database_dsn" toml:"database_dsn"`
	CacheSize        *int            `json:"cache_size" toml:"cache_size"`
	IdentityProvider *string         `json:"identity_provider" toml:"identity_provider"`
	IdentityEndpoint *string         `json:"identity_endpoint" toml:"identity_endpoint"`
	IdentityAPIKey   *string         `json:"identity_api_key" toml:"identity_api_key"`
	JWKSURL          *string         `json:"jwks_url" toml:"jwks_url"`
	RequestTimeout   *timex.Duration `json:"request_timeout" toml:"request_timeout"`
	BlobDir          *string         `json:"blob_dir" toml:"blob_dir"`
	DefaultTargetID  *string         `json:"default_target_id" toml:"default_target_id"`
	MetricsAddr      *string         `json:"metrics_addr" toml:"metrics_addr"`
	LogLevel         *string         `json:"log_level" toml:"log_level"`
	LogFormat        *string         `json:"log_format" toml:"log_format"`
}

// LoadFile overlays c with the settings in path. The format follows the
// extension: .toml is TOML, anything else is JSON.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	fc.apply(c)
	return nil
}

func (fc *fileConfig) apply(c *Config) {
	setString(&c.Store, fc.Store)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	if fc.CacheSize != nil {
		c.CacheSize = *fc.CacheSize
	}
	setString(&c.IdentityProvider, fc.IdentityProvider)
	setString(&c.IdentityEndpoint, fc.IdentityEndpoint)
	setString(&c.IdentityAPIKey, fc.IdentityAPIKey)
	setString(&c.JWKSURL, fc.JWKSURL)
	if fc.RequestTimeout != nil {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	setString(&c.BlobDir, fc.BlobDir)
	setString(&c.DefaultTargetID, fc.DefaultTargetID)
	setString(&c.MetricsAddr, fc.MetricsAddr)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
