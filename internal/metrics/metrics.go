// Package metrics collects per-run conversion counters for the command line
// tools and writes them in the Prometheus text exposition format, ready for
// the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crinex"

// File result labels.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// FileStats is what one converted file contributes to the run totals.
type FileStats struct {
	Epochs       int
	Events       int
	Comments     int
	SlotsCreated int
	SlotsRetired int
	BytesIn      int64
	BytesOut     int64
	Duration     time.Duration
	Err          error
}

// Recorder holds the series of one run in its own registry.
type Recorder struct {
	reg *prometheus.Registry

	files    *prometheus.CounterVec
	records  *prometheus.CounterVec
	slots    *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration prometheus.Histogram
	last     prometheus.Gauge
}

// New creates a Recorder whose series carry the tool name and run id as
// constant labels.
func New(tool, runID string) *Recorder {
	labels := prometheus.Labels{"tool": tool, "run_id": runID}
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "files_total",
			Help:        "Files processed, by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_total",
			Help:        "Records converted, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		slots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slots_total",
			Help:        "Satellite observable slots, by operation.",
			ConstLabels: labels,
		}, []string{"op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bytes_total",
			Help:        "Bytes read and written, outer framing included.",
			ConstLabels: labels,
		}, []string{"direction"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "file_duration_seconds",
			Help:        "Wall time spent per file.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		last: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(r.files, r.records, r.slots, r.bytes, r.duration, r.last)

	return r
}

// Observe adds one file to the totals. Safe for concurrent use.
func (r *Recorder) Observe(fs FileStats) {
	if fs.Err != nil {
		r.files.WithLabelValues(ResultFailed).Inc()
	} else {
		r.files.WithLabelValues(ResultOK).Inc()
	}

	r.records.WithLabelValues("epoch").Add(float64(fs.Epochs))
	r.records.WithLabelValues("event").Add(float64(fs.Events))
	r.records.WithLabelValues("comment").Add(float64(fs.Comments))
	r.slots.WithLabelValues("created").Add(float64(fs.SlotsCreated))
	r.slots.WithLabelValues("retired").Add(float64(fs.SlotsRetired))
	r.bytes.WithLabelValues("in").Add(float64(fs.BytesIn))
	r.bytes.WithLabelValues("out").Add(float64(fs.BytesOut))
	r.duration.Observe(fs.Duration.Seconds())
}

// Finish stamps the run end time.
func (r *Recorder) Finish(now time.Time) {
	r.last.Set(float64(now.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
