// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the herdmate CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/herdmate/internal/logging"
	"github.com/pdiddy/herdmate/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg holds the resolved configuration for the running command.
	cfg types.Config

	// logger writes structured logs to stderr; tables go to stdout.
	logger *logging.Logger
)

// rootCmd is the base command for the herdmate CLI.
var rootCmd = &cobra.Command{
	Use:   "herdmate",
	Short: "Mating and semen allocation planning for dairy herds",
	Long: `herdmate scores every cow in a herd against a pool of bulls and turns
the scores into a semen allocation plan.

Each pairing is rated on the expected inbreeding coefficient of the calf,
its risk for recessive genetic defects, and the parents' breeding indices.
Allocation then gives each cow the best eligible bull that still has
semen in stock. Input tables are YAML files in the data directory.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	// Assigned here rather than in the rootCmd literal: loadConfig reads
	// rootCmd flags, which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger, err = logging.New(cfg.Log.Mode, cfg.Log.Level)
		if err != nil {
			return err
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./herdmate.yaml or ~/.config/herdmate/herdmate.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding bulls.yaml, herd.yaml, genotypes.yaml, inventory.yaml")
	rootCmd.PersistentFlags().Int("depth", 0, "pedigree generations to expand (0 = config value)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("herdmate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "herdmate"))
		}
	}

	viper.SetEnvPrefix("HERDMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
