package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Brownie44l1/agro-api/internal/config"
	"github.com/Brownie44l1/agro-api/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agro",
	Short: "Plant disease recognition, weather and crop yield service",
	Long: `agro serves a small web UI and JSON API over pre-trained ONNX models:
leaf disease detection, plant identification, crop yield estimation and
an OpenWeatherMap forecast lookup.`,
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
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("models", "", "Directory containing model artifacts (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if dir, _ := cmd.Flags().GetString("models"); dir != "" {
		cfg.ModelsDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
