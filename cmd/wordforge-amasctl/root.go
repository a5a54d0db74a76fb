package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Heartcoolman/wordforge-sub000/internal/config"
)

var cfgFile string

// rootCmd is the base command when wordforge-amasctl is invoked without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "wordforge-amasctl",
	Short: "Operate the wordforge adaptive scheduler daemon",
	Long: `wordforge-amasctl is the operator CLI for wordforge-amasd.

It shares the daemon's own configuration loader, so every subcommand sees
the same layered defaults -> YAML file -> environment variables that
wordforge-amasd itself resolves at startup.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (overrides AMASD_CONFIG_PATH and the default search path)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the --config flag into AMASD_CONFIG_PATH (if set)
// before delegating to config.Load, so subcommands honor the same
// override order the daemon does.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, cfgFile); err != nil {
			return nil, fmt.Errorf("setting %s: %w", config.ConfigPathEnvVar, err)
		}
	}
	return config.Load()
}

func main() {
	Execute()
}
