package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yairfalse/vahti/config"
	"github.com/yairfalse/vahti/internal/aws"
)

var (
	version    = "0.1.0"
	configPath string
	debug      bool
	rootCmd    = &cobra.Command{
		Use:   "vahti",
		Short: "EC2 fleet operations toolkit",
		Long: `Vahti - EC2 fleet operations toolkit

Vahti keeps an eye on your EC2 fleet: list and normalize instances,
find instances missing required tags, start/stop/terminate instances,
snapshot volumes, and clean up Route53 records.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Vahti {{.Version}} - EC2 fleet operations toolkit
`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadedConfig returns the config file contents, or an empty config with
// defaults when no --config was given.
func loadedConfig() (*config.Config, error) {
	if configPath == "" {
		return &config.Config{}, nil
	}
	return config.LoadConfig(configPath)
}

// resolveRegion picks the region: flag beats config beats default.
func resolveRegion(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Region != "" {
		return cfg.Region
	}
	return "us-east-1"
}

func newClient(ctx context.Context, region string) (*aws.Client, error) {
	client, err := aws.New(ctx, aws.Config{Region: region})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return client, nil
}
