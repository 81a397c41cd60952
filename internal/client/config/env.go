package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DATASHARE_"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnv overlays c with DATASHARE_* variables. A nil lookup reads the
// process environment.
func (c *Config) LoadEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	str("STORE", &c.Store)
	str("DATABASE_DSN", &c.DatabaseDSN)
	str("IDENTITY_PROVIDER", &c.IdentityProvider)
	str("IDENTITY_ENDPOINT", &c.IdentityEndpoint)
	str("IDENTITY_API_KEY", &c.IdentityAPIKey)
	str("JWKS_URL", &c.JWKSURL)
	str("BLOB_DIR", &c.BlobDir)
	str("DEFAULT_TARGET_ID", &c.DefaultTargetID)
	str("METRICS_ADDR", &c.MetricsAddr)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup(EnvPrefix + "CACHE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_SIZE %q: %w", EnvPrefix, v, err)
		}
		c.CacheSize = n
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}
