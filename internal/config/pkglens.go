// Package config loads pkglens configuration from .pkglens/config with
// viper, layering file values over defaults. Flag and environment
// precedence is handled by the CLI layer.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Default thresholds. Every value is overridable via config file or the
// PKGLENS_ environment prefix.
const (
	DefaultTopExports = 5

	DefaultMinSharedSymbols    = 2
	DefaultMinDependents       = 3
	DefaultMaxImportChainRules = 10

	DefaultMaxFilesPerCommit = 20
	DefaultRecencyWindowDays = 45
	DefaultMinCoChangeCount  = 3
	DefaultMinJaccard        = 0.7
	DefaultMaxCoChangeRules  = 10

	// DefaultHubCommitFraction drops files appearing in more than this
	// fraction of qualifying commits.
	DefaultHubCommitFraction = 0.5
	// DefaultYoungRepoCommitFloor is the qualifying-commit count below
	// which the looser young-repository hub fraction applies.
	DefaultYoungRepoCommitFloor = 30
	// DefaultYoungRepoHubFraction is the hub fraction used for sparse
	// history so young repositories are not over-filtered. At 1.0 no
	// file can exceed the threshold, disabling hub exclusion until the
	// history clears the floor.
	DefaultYoungRepoHubFraction = 1.0
)

// Config represents the complete pkglens configuration
type Config struct {
	Version     int               `json:"version" mapstructure:"version"`
	Fingerprint FingerprintConfig `json:"fingerprint" mapstructure:"fingerprint"`
	ImportChain ImportChainConfig `json:"importChain" mapstructure:"importChain"`
	CoChange    CoChangeConfig    `json:"coChange" mapstructure:"coChange"`
	Logging     LoggingConfig     `json:"logging" mapstructure:"logging"`
}

// FingerprintConfig controls pattern fingerprinting
type FingerprintConfig struct {
	TopExports int `json:"topExports" mapstructure:"topExports"`
}

// ImportChainConfig controls the static import fan-in sub-analyzer
type ImportChainConfig struct {
	MinSharedSymbols int `json:"minSharedSymbols" mapstructure:"minSharedSymbols"`
	MinDependents    int `json:"minDependents" mapstructure:"minDependents"`
	MaxRules         int `json:"maxRules" mapstructure:"maxRules"`
}

// CoChangeConfig controls the version-control co-change sub-analyzer
type CoChangeConfig struct {
	MaxFilesPerCommit    int     `json:"maxFilesPerCommit" mapstructure:"maxFilesPerCommit"`
	RecencyWindowDays    int     `json:"recencyWindowDays" mapstructure:"recencyWindowDays"`
	MinCoChangeCount     int     `json:"minCoChangeCount" mapstructure:"minCoChangeCount"`
	MinJaccard           float64 `json:"minJaccard" mapstructure:"minJaccard"`
	HubCommitFraction    float64 `json:"hubCommitFraction" mapstructure:"hubCommitFraction"`
	YoungRepoCommitFloor int     `json:"youngRepoCommitFloor" mapstructure:"youngRepoCommitFloor"`
	YoungRepoHubFraction float64 `json:"youngRepoHubFraction" mapstructure:"youngRepoHubFraction"`
	MaxRules             int     `json:"maxRules" mapstructure:"maxRules"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Version: 1,
		Fingerprint: FingerprintConfig{
			TopExports: DefaultTopExports,
		},
		ImportChain: ImportChainConfig{
			MinSharedSymbols: DefaultMinSharedSymbols,
			MinDependents:    DefaultMinDependents,
			MaxRules:         DefaultMaxImportChainRules,
		},
		CoChange: CoChangeConfig{
			MaxFilesPerCommit:    DefaultMaxFilesPerCommit,
			RecencyWindowDays:    DefaultRecencyWindowDays,
			MinCoChangeCount:     DefaultMinCoChangeCount,
			MinJaccard:           DefaultMinJaccard,
			HubCommitFraction:    DefaultHubCommitFraction,
			YoungRepoCommitFloor: DefaultYoungRepoCommitFloor,
			YoungRepoHubFraction: DefaultYoungRepoHubFraction,
			MaxRules:             DefaultMaxCoChangeRules,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from <root>/.pkglens/config.{json,yaml,toml}
// plus the PKGLENS_ environment prefix. A missing config file is not an
// error; defaults apply.
func Load(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(root + "/.pkglens")
	v.SetEnvPrefix("PKGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("version", d.Version)
	v.SetDefault("fingerprint.topExports", d.Fingerprint.TopExports)
	v.SetDefault("importChain.minSharedSymbols", d.ImportChain.MinSharedSymbols)
	v.SetDefault("importChain.minDependents", d.ImportChain.MinDependents)
	v.SetDefault("importChain.maxRules", d.ImportChain.MaxRules)
	v.SetDefault("coChange.maxFilesPerCommit", d.CoChange.MaxFilesPerCommit)
	v.SetDefault("coChange.recencyWindowDays", d.CoChange.RecencyWindowDays)
	v.SetDefault("coChange.minCoChangeCount", d.CoChange.MinCoChangeCount)
	v.SetDefault("coChange.minJaccard", d.CoChange.MinJaccard)
	v.SetDefault("coChange.hubCommitFraction", d.CoChange.HubCommitFraction)
	v.SetDefault("coChange.youngRepoCommitFloor", d.CoChange.YoungRepoCommitFloor)
	v.SetDefault("coChange.youngRepoHubFraction", d.CoChange.YoungRepoHubFraction)
	v.SetDefault("coChange.maxRules", d.CoChange.MaxRules)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}
