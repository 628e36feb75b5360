package daemon

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds operational metrics using OTEL semantic conventions
type Metrics struct {
	scans               metric.Int64Counter
	scanDuration        metric.Float64Histogram
	instancesDiscovered metric.Int64Gauge
	untaggedInstances   metric.Int64Gauge
}

// NewMetrics creates daemon metrics following OTEL semantic conventions
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("vahti.daemon")

	scans, err := meter.Int64Counter(
		"vahti.daemon.scans",
		metric.WithDescription("Number of scan runs"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		return nil, err
	}

	scanDuration, err := meter.Float64Histogram(
		"vahti.daemon.scan.duration",
		metric.WithDescription("Duration of scan operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	instancesDiscovered, err := meter.Int64Gauge(
		"vahti.instances.discovered",
		metric.WithDescription("Number of EC2 instances discovered"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}

	untaggedInstances, err := meter.Int64Gauge(
		"vahti.instances.untagged",
		metric.WithDescription("Number of instances matching no tag policy criterion"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		scans:               scans,
		scanDuration:        scanDuration,
		instancesDiscovered: instancesDiscovered,
		untaggedInstances:   untaggedInstances,
	}, nil
}

// RecordScan records a scan run with status
func (m *Metrics) RecordScan(ctx context.Context, status string, region string) {
	m.scans.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
			attribute.String("cloud.region", region),
		),
	)
}

// RecordScanDuration records scan duration
func (m *Metrics) RecordScanDuration(ctx context.Context, durationSeconds float64, status string) {
	m.scanDuration.Record(ctx, durationSeconds,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

// RecordInstancesDiscovered records instance counts per state
func (m *Metrics) RecordInstancesDiscovered(ctx context.Context, count int64, state string, region string) {
	m.instancesDiscovered.Record(ctx, count,
		metric.WithAttributes(
			attribute.String("state", state),
			attribute.String("cloud.region", region),
		),
	)
}

// RecordUntaggedInstances records the untagged-instance count
func (m *Metrics) RecordUntaggedInstances(ctx context.Context, count int64, region string) {
	m.untaggedInstances.Record(ctx, count,
		metric.WithAttributes(
			attribute.String("cloud.region", region),
		),
	)
}
