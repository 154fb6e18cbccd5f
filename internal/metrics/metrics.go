package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the scan-pipeline metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	Scans        *prometheus.CounterVec // outcome label
	ScanDuration prometheus.Histogram

	PointsAwarded        prometheus.Counter
	AchievementsUnlocked *prometheus.CounterVec // code label

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
}

// NewCollector creates and registers the collector.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uidelink_scans_total",
			Help: "Total scan requests by outcome.",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uidelink_scan_duration_seconds",
			Help:    "Duration of the full scan pipeline.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		PointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uidelink_points_awarded_total",
			Help: "Total points awarded to students.",
		}),
		AchievementsUnlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uidelink_achievements_unlocked_total",
			Help: "Total achievements unlocked by code.",
		}, []string{"code"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uidelink_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uidelink_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uidelink_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.Scans, c.ScanDuration,
		c.PointsAwarded, c.AchievementsUnlocked,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
	)

	return c
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// ScanObserve records one finished scan pipeline run.
func (c *Collector) ScanObserve(outcome string, d time.Duration) {
	c.Scans.WithLabelValues(outcome).Inc()
	c.ScanDuration.Observe(d.Seconds())
}

// PointsAdd adds awarded points to the running total.
func (c *Collector) PointsAdd(points int) {
	c.PointsAwarded.Add(float64(points))
}

// AchievementInc counts one unlocked achievement.
func (c *Collector) AchievementInc(code string) {
	c.AchievementsUnlocked.WithLabelValues(code).Inc()
}

// NATSPublishedInc counts one published message.
func (c *Collector) NATSPublishedInc() { c.NATSPublished.Inc() }

// NATSPublishErrInc counts one failed publish.
func (c *Collector) NATSPublishErrInc() { c.NATSPublishErrs.Inc() }

// NATSSetConnected flips the connection gauge.
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
