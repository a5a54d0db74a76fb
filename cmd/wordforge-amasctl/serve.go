package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the wordforge-amasd daemon in the foreground",
	Long: `serve execs wordforge-amasd with this process's configuration
overrides still in the environment, so "amasctl --config prod.yaml serve"
and running wordforge-amasd directly with AMASD_CONFIG_PATH set behave
identically.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return fmt.Errorf("configuration invalid, refusing to start daemon: %w", err)
	}

	binPath, err := exec.LookPath("wordforge-amasd")
	if err != nil {
		return fmt.Errorf("wordforge-amasd not found on PATH: %w", err)
	}

	daemon := exec.Command(binPath)
	daemon.Env = os.Environ()
	daemon.Stdout = os.Stdout
	daemon.Stderr = os.Stderr
	daemon.Stdin = os.Stdin

	return daemon.Run()
}
