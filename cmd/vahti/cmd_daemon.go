package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/yairfalse/vahti/internal/daemon"
	"github.com/yairfalse/vahti/internal/inventory"
)

var (
	daemonRegion      string
	daemonInterval    time.Duration
	daemonMetricsAddr string
	daemonStorageDir  string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the continuous scan daemon",
	Long: `Run Vahti in daemon mode: scan the fleet on an interval, check it
against the tag policy, record observations to the inventory, and expose
Prometheus metrics on /metrics.

Shuts down gracefully on SIGINT/SIGTERM.`,
	Example: `  vahti daemon --config vahti.yaml
  vahti daemon --interval 10m --metrics :2112
  vahti daemon --storage /var/lib/vahti`,
	RunE: runDaemonCmd,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVarP(&daemonRegion, "region", "r", "", "AWS region")
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "Scan interval (default from config, else 5m)")
	daemonCmd.Flags().StringVar(&daemonMetricsAddr, "metrics", "", "Metrics server address (default from config, else :9090)")
	daemonCmd.Flags().StringVar(&daemonStorageDir, "storage", "", "Inventory storage directory (empty disables persistence)")
}

func runDaemonCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	interval := daemonInterval
	if interval == 0 {
		interval = cfg.Daemon.Interval
	}
	if interval == 0 {
		interval = 5 * time.Minute
	}

	metricsAddr := daemonMetricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Daemon.MetricsAddr
	}
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	storageDir := daemonStorageDir
	if storageDir == "" {
		storageDir = cfg.StorageDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// OTEL metrics through the Prometheus exporter
	promExporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter))
	otel.SetMeterProvider(provider)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", metricsAddr).Msg("starting metrics server")
		if err := http.ListenAndServe(metricsAddr, nil); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()

	region := resolveRegion(daemonRegion, cfg)
	client, err := newClient(ctx, region)
	if err != nil {
		return err
	}

	var recorder daemon.Recorder
	if storageDir != "" {
		if err := os.MkdirAll(storageDir, 0750); err != nil {
			return fmt.Errorf("failed to create storage dir: %w", err)
		}
		store, err := inventory.Open(storageDir)
		if err != nil {
			return fmt.Errorf("failed to open inventory: %w", err)
		}
		defer func() { _ = store.Close() }()
		recorder = store
	}

	d, err := daemon.New(daemon.Config{
		Interval: interval,
		Policy:   cfg.TagPolicy,
	}, client, recorder)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	log.Info().
		Str("region", region).
		Dur("interval", interval).
		Str("metrics", metricsAddr).
		Msg("vahti daemon starting")

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	log.Info().Msg("daemon stopped")
	return nil
}
