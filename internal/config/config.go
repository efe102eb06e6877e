package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every query command.
type Config struct {
	RPCURL          string
	CatalogAddress  string
	PoolAddress     string
	OracleAddress   string
	CacheTTL        time.Duration
	StakingYieldPct float64
	RetryAttempts   int
	RetryDelay      time.Duration
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		CatalogAddress:  v.GetString("catalog"),
		PoolAddress:     v.GetString("pool"),
		OracleAddress:   v.GetString("oracle"),
		CacheTTL:        v.GetDuration("ttl"),
		StakingYieldPct: v.GetFloat64("staking-yield"),
		RetryAttempts:   v.GetInt("retry-attempts"),
		RetryDelay:      v.GetDuration("retry-delay"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings every chain-facing command needs.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.CatalogAddress == "" {
		return fmt.Errorf("catalog address is required")
	}
	if c.PoolAddress == "" {
		return fmt.Errorf("pool address is required")
	}
	if c.OracleAddress == "" {
		return fmt.Errorf("oracle address is required")
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("ttl", 15*time.Second)
	v.SetDefault("staking-yield", 0.0)
	v.SetDefault("retry-attempts", 2)
	v.SetDefault("retry-delay", 150*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
