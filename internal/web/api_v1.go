package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/rook-computer/habdometer/internal/render"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// configDTO is the JSON shape of a gauge configuration; the background
// travels as #RRGGBB.
type configDTO struct {
	Value            float64  `json:"value"`
	Min              float64  `json:"min"`
	Max              float64  `json:"max"`
	Name             string   `json:"name"`
	Units            string   `json:"units"`
	Type             string   `json:"type"`
	Size             int      `json:"size"`
	Background       string   `json:"bg"`
	WarningThreshold *float64 `json:"warningThreshold"`
	WarningMessage   string   `json:"warningMessage,omitempty"`
}

func toDTO(cfg gauge.Config) configDTO {
	return configDTO{
		Value:            cfg.Value,
		Min:              cfg.Min,
		Max:              cfg.Max,
		Name:             cfg.Name,
		Units:            cfg.Units,
		Type:             string(cfg.Type),
		Size:             cfg.Size,
		Background:       gauge.HexColor(cfg.Background),
		WarningThreshold: cfg.WarningThreshold,
		WarningMessage:   cfg.WarningMessage,
	}
}

func (d configDTO) config() (gauge.Config, error) {
	bg, err := gauge.ParseHexColor(d.Background)
	if err != nil {
		return gauge.Config{}, err
	}
	return gauge.Config{
		Value:            d.Value,
		Min:              d.Min,
		Max:              d.Max,
		Name:             d.Name,
		Units:            d.Units,
		Type:             gauge.Type(d.Type),
		Size:             d.Size,
		Background:       bg,
		WarningThreshold: d.WarningThreshold,
		WarningMessage:   d.WarningMessage,
	}, nil
}

type configResponse struct {
	Config configDTO `json:"config"`
	Issues []string  `json:"issues,omitempty"`
}

type geometryResponse struct {
	Config   configDTO      `json:"config"`
	Geometry gauge.Geometry `json:"geometry"`
	Issues   []string       `json:"issues,omitempty"`
}

type commandsResponse struct {
	Geometry gauge.Geometry  `json:"geometry"`
	Commands []gauge.Command `json:"commands"`
}

type shareResponse struct {
	URL           string `json:"url"`
	FullscreenURL string `json:"fullscreenUrl"`
	Query         string `json:"query"`
}

type statusResponse struct {
	Phase      string            `json:"phase"`
	Value      float64           `json:"value"`
	Target     float64           `json:"target"`
	Warning    gauge.WarningView `json:"warning"`
	Fullscreen bool              `json:"fullscreen"`
	Source     string            `json:"source,omitempty"`
	SourceErr  string            `json:"sourceError,omitempty"`
	ShareURL   string            `json:"shareUrl,omitempty"`
	Revision   uint64            `json:"revision"`
}

const maxBodyBytes = 1 << 16

// issuesHeader lists what ParseQuery corrected on image responses.
const issuesHeader = "X-Gauge-Issues"

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	enc := &render.Encoder{Renderer: gauge.Renderer{Logger: deps.Logger}}
	mux := http.NewServeMux()
	mux.HandleFunc("/gauge.png", func(w http.ResponseWriter, r *http.Request) { handleGaugeImage(w, r, deps, enc, "png") })
	mux.HandleFunc("/gauge.svg", func(w http.ResponseWriter, r *http.Request) { handleGaugeImage(w, r, deps, enc, "svg") })
	mux.HandleFunc("/geometry", func(w http.ResponseWriter, r *http.Request) { handleGeometry(w, r, deps) })
	mux.HandleFunc("/commands", func(w http.ResponseWriter, r *http.Request) { handleCommands(w, r, deps, enc) })
	mux.HandleFunc("/presets", handlePresets)
	mux.HandleFunc("/share", func(w http.ResponseWriter, r *http.Request) { handleShare(w, r, deps) })
	mux.HandleFunc("/share.png", func(w http.ResponseWriter, r *http.Request) { handleSharePNG(w, r, deps) })
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) { handleConfig(w, r, deps) })
	mux.HandleFunc("/value", func(w http.ResponseWriter, r *http.Request) { handleValue(w, r, deps) })
	mux.HandleFunc("/fullscreen", func(w http.ResponseWriter, r *http.Request) { handleFullscreen(w, r, deps) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/screen.png", func(w http.ResponseWriter, r *http.Request) { handleScreen(w, r, deps) })
	return mux
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return false
	}
	return true
}

// queryConfig reads the request's gauge keys on top of the defaults.
func queryConfig(r *http.Request) (gauge.Config, bool, gauge.Issues) {
	return ParseQuery(r.URL.Query(), gauge.DefaultConfig())
}

func handleGaugeImage(w http.ResponseWriter, r *http.Request, deps APIV1Deps, enc *render.Encoder, format string) {
	if !allowGet(w, r) {
		return
	}
	cfg, _, issues := queryConfig(r)
	norm, more := gauge.Normalize(cfg)
	issues = append(issues, more...)

	start := time.Now()
	var buf bytes.Buffer
	var err error
	contentType := "image/png"
	if format == "svg" {
		contentType = "image/svg+xml"
		_, err = enc.SVG(&buf, norm, gauge.StillWarning(norm))
	} else {
		_, err = enc.PNG(&buf, norm, gauge.StillWarning(norm))
	}
	deps.Metrics.observe(format, start, err)
	if err != nil {
		deps.Logger.Errorf("api", "render %s failed: %v", format, err)
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if len(issues) > 0 {
		w.Header().Set(issuesHeader, strings.Join(issues.Strings(), "; "))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}

func handleGeometry(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if !allowGet(w, r) {
		return
	}
	start := time.Now()
	cfg, _, issues := queryConfig(r)
	norm, more := gauge.Normalize(cfg)
	issues = append(issues, more...)
	geom := gauge.Compute(norm, float64(norm.Size), float64(norm.Size))
	deps.Metrics.observe("geometry", start, nil)
	writeJSON(w, http.StatusOK, geometryResponse{Config: toDTO(norm), Geometry: geom, Issues: issues.Strings()})
}

func handleCommands(w http.ResponseWriter, r *http.Request, deps APIV1Deps, enc *render.Encoder) {
	if !allowGet(w, r) {
		return
	}
	start := time.Now()
	cfg, _, _ := queryConfig(r)
	norm, _ := gauge.Normalize(cfg)
	geom, cmds := enc.Commands(norm, gauge.StillWarning(norm))
	deps.Metrics.observe("commands", start, nil)
	writeJSON(w, http.StatusOK, commandsResponse{Geometry: geom, Commands: cmds})
}

func handlePresets(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, gauge.Presets)
}

// shareBase is the page a share link points at.
func shareBase(r *http.Request, deps APIV1Deps) string {
	if deps.PublicURL != "" {
		return strings.TrimRight(deps.PublicURL, "/") + "/"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

func handleShare(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if !allowGet(w, r) {
		return
	}
	cfg, _, _ := queryConfig(r)
	base := shareBase(r, deps)
	writeJSON(w, http.StatusOK, shareResponse{
		URL:           ShareURL(base, cfg, false),
		FullscreenURL: ShareURL(base, cfg, true),
		Query:         BuildQuery(cfg, false).Encode(),
	})
}

func handleSharePNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if !allowGet(w, r) {
		return
	}
	cfg, fullscreen, _ := queryConfig(r)
	size := 256
	if raw := r.URL.Query().Get("px"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 64 && v <= 1024 {
			size = v
		}
	}
	start := time.Now()
	data, err := render.QRCodePNG(ShareURL(shareBase(r, deps), cfg, fullscreen), size)
	deps.Metrics.observe("qr", start, err)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func handleConfig(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writeJSON(w, http.StatusOK, configResponse{Config: toDTO(deps.Store.Snapshot().Gauge)})
	case http.MethodPut:
		// Fields missing from the body keep their current value.
		dto := toDTO(deps.Store.Snapshot().Gauge)
		if err := decodeBody(r, &dto); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		cfg, err := dto.config()
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_bg", err.Error())
			return
		}
		issues := deps.Store.SetGauge(cfg)
		if len(issues) > 0 {
			deps.Logger.Warnf("api", "config corrected: %s", issues)
		}
		writeJSON(w, http.StatusOK, configResponse{Config: toDTO(deps.Store.Snapshot().Gauge), Issues: issues.Strings()})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleValue(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var body struct {
		Value *float64 `json:"value"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if body.Value == nil {
		writeAPIError(w, http.StatusBadRequest, "missing_value", "value is required")
		return
	}
	deps.Store.SetValue(*body.Value)
	writeJSON(w, http.StatusOK, configResponse{Config: toDTO(deps.Store.Snapshot().Gauge)})
}

func handleFullscreen(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var body struct {
		Fullscreen bool `json:"fullscreen"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	deps.Store.SetFullscreen(body.Fullscreen)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if !allowGet(w, r) {
		return
	}
	snap := deps.Store.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Phase:      snap.Phase.String(),
		Value:      snap.Display.Value,
		Target:     snap.Gauge.Value,
		Warning:    snap.Display.Warning,
		Fullscreen: snap.Fullscreen,
		Source:     snap.Source.Name,
		SourceErr:  snap.Source.Err,
		ShareURL:   snap.Network.ShareURL,
		Revision:   snap.Revision,
	})
}

func handleScreen(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if !allowGet(w, r) {
		return
	}
	if deps.Screen == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "no display attached")
		return
	}
	frame := deps.Screen.Frame()
	if frame == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(apiError{Error: "encode_failed", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
