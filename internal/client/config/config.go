package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datashare/internal/common"
)

// Store modes.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreNone   = "none"
)

// Identity providers.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// Config holds runtime settings for the DataShare CLI.
type Config struct {
	// Store selects the durable medium: sqlite, memory or none.
	Store       string
	DatabaseDSN string
	// CacheSize is the number of values kept in the read cache; 0 disables it.
	CacheSize int

	IdentityProvider string
	IdentityEndpoint string
	IdentityAPIKey   string
	JWKSURL          string
	RequestTimeout   time.Duration

	// BlobDir is where uploaded bytes are staged. Empty means the OS temp dir.
	BlobDir         string
	DefaultTargetID string

	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Store = StoreSQLite
	c.DatabaseDSN = "datashare.db"
	c.CacheSize = 128
	c.IdentityProvider = ProviderLocal
	c.IdentityEndpoint = "https://identitytoolkit.googleapis.com"
	c.RequestTimeout = 10 * time.Second
	c.DefaultTargetID = common.DemoUserAID
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, then the file at path (if non-empty),
// then DATASHARE_* environment variables. Command-line flags are applied by
// the caller with ApplyFlags.
func Load(path string, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the combination of settings is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("database_dsn is required for the sqlite store"))
		}
	case StoreMemory, StoreNone:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	switch c.IdentityProvider {
	case ProviderLocal:
		if c.Store == StoreNone {
			errs = append(errs, errors.New("the local identity provider needs a store"))
		}
	case ProviderRemote:
		if c.IdentityAPIKey == "" {
			errs = append(errs, errors.New("identity_api_key is required for the remote provider"))
		}
		if c.IdentityEndpoint == "" {
			errs = append(errs, errors.New("identity_endpoint is required for the remote provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown identity provider %q", c.IdentityProvider))
	}

	if c.CacheSize < 0 {
		errs = append(errs, errors.New("cache_size must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.DefaultTargetID == "" {
		errs = append(errs, errors.New("default_target_id must not be empty"))
	}

	return errors.Join(errs...)
}
