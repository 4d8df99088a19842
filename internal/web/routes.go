package web

import (
	"net/http"
)

type APIV1Config struct {
	Deps APIV1Deps
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Deps)))
}

// RegisterMetrics exposes the render counters in Prometheus text format.
func RegisterMetrics(mux *http.ServeMux, m *Metrics) {
	if m == nil {
		return
	}
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.WritePrometheus(w)
	})
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both the kiosk and simulator:
// - /api/v1/* for the API
// - /metrics for Prometheus
// - / for the control page
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	cfg.Deps = cfg.Deps.withDefaults()
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterMetrics(mux, cfg.Deps.Metrics)
	RegisterUI(mux, staticDir)
	return mux
}
