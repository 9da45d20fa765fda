package connectivity

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotSource returns the latest check results.
type SnapshotSource interface {
	Snapshot() Snapshot
}

// Collector exports the latest snapshot as Prometheus metrics. Values are read
// at scrape time, so nothing is recorded between check runs.
type Collector struct {
	source SnapshotSource

	up        *prometheus.Desc
	checkedAt *prometheus.Desc
	lastRun   *prometheus.Desc
}

func NewCollector(source SnapshotSource) *Collector {
	labels := []string{"integration_id", "type", "name"}
	return &Collector{
		source: source,
		up: prometheus.NewDesc("opsflow_integration_up",
			"Whether the last connection test of an integration succeeded (1) or failed (0)",
			append(labels, "error_kind"), nil,
		),
		checkedAt: prometheus.NewDesc("opsflow_integration_checked_timestamp_seconds",
			"Unix time of the last connection test of an integration",
			labels, nil,
		),
		lastRun: prometheus.NewDesc("opsflow_connectivity_last_run_timestamp_seconds",
			"Unix time the last connectivity check run completed",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.checkedAt
	ch <- c.lastRun
}

// Collect emits nothing until the first check run has finished.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.source.Snapshot()
	if snapshot.CheckedAt.IsZero() {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.lastRun, prometheus.GaugeValue, float64(snapshot.CheckedAt.Unix()))

	for _, status := range snapshot.Statuses {
		up, kind := 1.0, ""
		if !status.OK {
			up = 0
			if status.Error != nil {
				kind = string(status.Error.Kind)
			}
		}
		integrationType := string(status.Type)

		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, up,
			status.IntegrationID, integrationType, status.Name, kind)
		ch <- prometheus.MustNewConstMetric(c.checkedAt, prometheus.GaugeValue, float64(status.CheckedAt.Unix()),
			status.IntegrationID, integrationType, status.Name)
	}
}
