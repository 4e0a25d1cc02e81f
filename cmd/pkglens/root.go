package main

import (
	"os"

	"github.com/spf13/cobra"

	"pkglens/internal/config"
	"pkglens/internal/logging"
	"pkglens/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pkglens",
	Short: "pkglens - structural package analysis",
	Long: `pkglens builds a structural model of a source-code package for downstream
documentation and benchmarking tools: the resolved public API surface, a
reachability tier for every file, structural fingerprints of the most-used
exports, and coupling rules derived from static imports and git history.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("pkglens version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: human)")
}

// newLogger builds the logger from CLI flag, env var, and config.
// Precedence: CLI flag > PKGLENS_LOG_LEVEL env var > config file > default.
func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if env := os.Getenv("PKGLENS_LOG_LEVEL"); env != "" {
		level = env
	}
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	format := cfg.Logging.Format
	if env := os.Getenv("PKGLENS_LOG_FORMAT"); env != "" {
		format = env
	}
	if logFormatFlag != "" {
		format = logFormatFlag
	}

	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.LogLevel(level),
	})
}
