package web

import (
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics counts API renders. It owns its own set so tests and the
// simulator never share series.
type Metrics struct {
	set      *metrics.Set
	errors   *metrics.Counter
	requests map[string]*metrics.Counter
	duration map[string]*metrics.Summary
}

var renderFormats = []string{"png", "svg", "geometry", "commands", "qr"}

func NewMetrics() *Metrics {
	m := &Metrics{
		set:      metrics.NewSet(),
		requests: make(map[string]*metrics.Counter),
		duration: make(map[string]*metrics.Summary),
	}
	m.errors = m.set.NewCounter("habdometer_render_errors_total")
	for _, f := range renderFormats {
		m.requests[f] = m.set.NewCounter(`habdometer_renders_total{format="` + f + `"}`)
		m.duration[f] = m.set.NewSummary(`habdometer_render_duration_seconds{format="` + f + `"}`)
	}
	return m
}

// GaugeFunc exports a value read on every scrape.
func (m *Metrics) GaugeFunc(name string, f func() float64) {
	m.set.NewGauge(name, f)
}

func (m *Metrics) observe(format string, start time.Time, err error) {
	if m == nil {
		return
	}
	if c, ok := m.requests[format]; ok {
		c.Inc()
		m.duration[format].UpdateDuration(start)
	}
	if err != nil {
		m.errors.Inc()
	}
}

func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}
