// Package metrics exposes vmstat snapshots to Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dicklesworthstone/vmsnap/internal/model"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
)

const namespace = "vmstat"

var help = [model.NumFields]string{
	"Processes in the running state.",
	"Processes in uninterruptible sleep.",
	"Swap in use, KiB.",
	"Free memory, KiB.",
	"Buffer memory, KiB.",
	"Page cache memory, KiB.",
	"Swap-ins per second since boot.",
	"Swap-outs per second since boot.",
	"Blocks read per second since boot.",
	"Blocks written per second since boot.",
	"Interrupts per second since boot.",
	"Interrupt service time per second since boot, reported as context switches.",
	"User and nice CPU share, percent.",
	"System, irq and softirq CPU share, percent.",
	"Idle CPU share, percent.",
	"I/O wait CPU share, percent.",
	"Stolen CPU share, percent.",
}

// Collector assembles one snapshot per scrape.
type Collector struct {
	snap    sampler.Snapshotter
	timeout time.Duration
	descs   [model.NumFields]*prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(snap sampler.Snapshotter) *Collector {
	c := &Collector{snap: snap, timeout: 5 * time.Second}
	for i, name := range model.Names {
		c.descs[i] = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help[i], nil, nil)
	}
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect exports all 17 gauges, or one invalid metric per gauge if the
// snapshot failed.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.snap.Snapshot(ctx)
	if err != nil {
		for _, d := range c.descs {
			ch <- prometheus.NewInvalidMetric(d, err)
		}
		return
	}
	for i, v := range snap.Values() {
		ch <- prometheus.MustNewConstMetric(c.descs[i], prometheus.GaugeValue, float64(v))
	}
}
