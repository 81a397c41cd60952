package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by RegisterFlags and ApplyFlags.
const (
	FlagConfig      = "config"
	FlagStore       = "store"
	FlagDB          = "db"
	FlagProvider    = "provider"
	FlagLogLevel    = "log-level"
	FlagMetricsAddr = "metrics-addr"
)

// RegisterFlags defines the override flags on fs. Their defaults are empty
// so that only flags given explicitly take effect.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to a JSON or TOML config file")
	fs.String(FlagStore, "", "durable store: sqlite, memory or none")
	fs.String(FlagDB, "", "SQLite database file")
	fs.String(FlagProvider, "", "identity provider: local or remote")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn or error")
	fs.String(FlagMetricsAddr, "", "address for the Prometheus metrics listener")
}

// ApplyFlags overlays c with the flags that were set on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	for name, dst := range map[string]*string{
		FlagStore:       &c.Store,
		FlagDB:          &c.DatabaseDSN,
		FlagProvider:    &c.IdentityProvider,
		FlagLogLevel:    &c.LogLevel,
		FlagMetricsAddr: &c.MetricsAddr,
	} {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}
