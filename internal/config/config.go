// Package config loads node configuration from defaults, an optional
// config file, and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the node configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Hooks   HooksConfig   `mapstructure:"hooks"`

	// Features lists amendment names enabled at startup in standalone
	// mode.
	Features []string `mapstructure:"features"`
}

// StorageConfig configures the node store.
type StorageConfig struct {
	Path        string `mapstructure:"path"`
	Compression string `mapstructure:"compression"` // "lz4" or "none"
}

// LedgerConfig configures the genesis fee schedule.
type LedgerConfig struct {
	BaseFee          uint64 `mapstructure:"base_fee"`
	ReserveBase      uint64 `mapstructure:"reserve_base"`
	ReserveIncrement uint64 `mapstructure:"reserve_increment"`
}

// HooksConfig configures the hook runtime limits.
type HooksConfig struct {
	Fuel int64 `mapstructure:"fuel"`
}

// setDefaults installs the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "data/xahaud")
	v.SetDefault("storage.compression", "lz4")
	v.SetDefault("ledger.base_fee", 10)
	v.SetDefault("ledger.reserve_base", 200_000)
	v.SetDefault("ledger.reserve_increment", 50_000)
	v.SetDefault("hooks.fuel", 65536)
	v.SetDefault("features", []string{
		"fix1543",
		"DepositAuth",
		"DepositPreauth",
		"fixPayChanRecipientOwnerDir",
		"PaychanAndEscrowForTokens",
		"Hooks",
	})
}

// Load reads the configuration. An empty path loads defaults and
// environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("XAHAUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	switch c.Storage.Compression {
	case "lz4", "none":
	default:
		return fmt.Errorf("storage.compression must be lz4 or none, got %q", c.Storage.Compression)
	}
	if c.Ledger.BaseFee == 0 {
		return fmt.Errorf("ledger.base_fee must be positive")
	}
	if c.Hooks.Fuel <= 0 {
		return fmt.Errorf("hooks.fuel must be positive")
	}
	return nil
}
