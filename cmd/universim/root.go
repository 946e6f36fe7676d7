package main

import (
	"fmt"
	"os"

	"github.com/chazu/universim/pkg/config"
	"github.com/chazu/universim/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "universim",
	Short: "Universim grows Menger sponges by cube subdivision",
	Long: `Universim starts from one or more seed cubes and replaces every cube with its
20 kept children on each generation. Scenes come from a YAML config or a script.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().String("log", "", "Log mode: dev, debug or prod (overrides log_mode)")
}

// loadConfig reads --config, or the defaults when it is unset, and applies
// --log.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if mode, _ := cmd.Flags().GetString("log"); mode != "" {
		cfg.LogMode = mode
	}
	return cfg, nil
}

// newLogger builds the process logger for cfg.
func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
