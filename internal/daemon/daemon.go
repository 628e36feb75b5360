// Package daemon runs the continuous scan loop for daemon mode.
package daemon

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yairfalse/vahti/internal/aws"
	"github.com/yairfalse/vahti/internal/tags"
	"github.com/yairfalse/vahti/pkg/instance"
)

// Lister lists instances. Satisfied by *aws.Client.
type Lister interface {
	ListInstances(ctx context.Context, query aws.ListQuery) ([]instance.Instance, error)
	Region() string
}

// Recorder persists scan results. Satisfied by *inventory.Store.
type Recorder interface {
	RecordScan(instances []instance.Instance) (int64, error)
}

// Config holds daemon configuration
type Config struct {
	Interval time.Duration
	Policy   tags.Criteria
}

// Daemon scans on an interval, emits metrics, and records to the inventory.
type Daemon struct {
	interval  time.Duration
	policy    tags.Criteria
	lister    Lister
	recorder  Recorder // may be nil
	metrics   *Metrics
	startTime time.Time
	scanCount atomic.Int64
}

// New creates a daemon. recorder may be nil to skip persistence.
func New(cfg Config, lister Lister, recorder Recorder) (*Daemon, error) {
	metrics, err := NewMetrics()
	if err != nil {
		return nil, err
	}

	return &Daemon{
		interval:  cfg.Interval,
		policy:    cfg.Policy,
		lister:    lister,
		recorder:  recorder,
		metrics:   metrics,
		startTime: time.Now(),
	}, nil
}

// Start runs an initial scan then scans on the interval until ctx is done.
func (d *Daemon) Start(ctx context.Context) error {
	d.runScan(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.runScan(ctx)
		}
	}
}

func (d *Daemon) runScan(ctx context.Context) {
	d.scanCount.Add(1)
	region := d.lister.Region()
	start := time.Now()

	instances, err := d.lister.ListInstances(ctx, aws.ListQuery{})
	duration := time.Since(start).Seconds()

	if err != nil {
		log.Error().Err(err).Str("region", region).Msg("scan failed")
		d.metrics.RecordScan(ctx, "error", region)
		d.metrics.RecordScanDuration(ctx, duration, "error")
		return
	}

	d.metrics.RecordScan(ctx, "success", region)
	d.metrics.RecordScanDuration(ctx, duration, "success")

	grouped := instance.GroupByRunning(instances)
	d.metrics.RecordInstancesDiscovered(ctx, int64(len(grouped.Running)), "running", region)
	d.metrics.RecordInstancesDiscovered(ctx, int64(len(grouped.NotRunning)), "not-running", region)

	untagged := tags.FindUntaggedInstances(d.policy, instances)
	d.metrics.RecordUntaggedInstances(ctx, int64(len(untagged)), region)

	if d.recorder != nil {
		if _, err := d.recorder.RecordScan(instances); err != nil {
			log.Error().Err(err).Msg("record scan failed")
		}
	}

	log.Info().
		Str("region", region).
		Int("instances", len(instances)).
		Int("untagged", len(untagged)).
		Float64("duration_s", duration).
		Msg("scan complete")
}

// ScanCount returns total scans run
func (d *Daemon) ScanCount() int64 {
	return d.scanCount.Load()
}

// HealthStatus represents daemon health
type HealthStatus struct {
	Status string
	Uptime int64
}

// Health returns daemon health status
func (d *Daemon) Health() HealthStatus {
	return HealthStatus{
		Status: "healthy",
		Uptime: int64(time.Since(d.startTime).Seconds()),
	}
}
