package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rook-computer/habdometer/internal/gauge"
)

// Query keys understood by the gauge endpoints and share links.
const (
	keyValue            = "value"
	keyMin              = "min"
	keyMax              = "max"
	keyName             = "name"
	keyUnits            = "units"
	keyType             = "type"
	keyBackground       = "bg"
	keySize             = "size"
	keyWarningThreshold = "warningThreshold"
	keyWarningMessage   = "warningMessage"
	keyFullscreen       = "fullscreen"
	keyPreset           = "preset"
)

// ParseQuery overlays the keys present in q onto base. Keys that fail to
// parse keep the base value and are reported; a size outside the supported
// range is ignored. The returned config is not normalized.
func ParseQuery(q url.Values, base gauge.Config) (cfg gauge.Config, fullscreen bool, issues gauge.Issues) {
	cfg = base
	if key := q.Get(keyPreset); key != "" {
		if p, ok := gauge.PresetByKey(key); ok {
			cfg = p.Apply(cfg)
		} else {
			issues = append(issues, fmt.Errorf("%w: unknown preset %q", gauge.ErrInvalidType, key))
		}
	}

	number := func(key string, dst *float64) {
		if !q.Has(key) {
			return
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
		if err != nil {
			issues = append(issues, fmt.Errorf("%w: %s=%q", gauge.ErrInvalidNumber, key, q.Get(key)))
			return
		}
		*dst = v
	}
	number(keyValue, &cfg.Value)
	number(keyMin, &cfg.Min)
	number(keyMax, &cfg.Max)

	if q.Has(keyName) {
		cfg.Name = decodeText(q.Get(keyName))
	}
	if q.Has(keyUnits) {
		cfg.Units = decodeText(q.Get(keyUnits))
	}
	if q.Has(keyType) {
		t, err := gauge.ParseType(q.Get(keyType))
		if err != nil {
			issues = append(issues, err)
		}
		cfg.Type = t
	}
	if q.Has(keyBackground) {
		bg, err := gauge.ParseHexColor(decodeText(q.Get(keyBackground)))
		if err != nil {
			issues = append(issues, fmt.Errorf("%s: %w", keyBackground, err))
		} else {
			cfg.Background = bg
		}
	}
	if q.Has(keySize) {
		size, err := strconv.Atoi(strings.TrimSpace(q.Get(keySize)))
		switch {
		case err != nil:
			issues = append(issues, fmt.Errorf("%w: %s=%q", gauge.ErrInvalidNumber, keySize, q.Get(keySize)))
		case size < gauge.MinSize || size > gauge.MaxSize:
			issues = append(issues, fmt.Errorf("%w: size %d", gauge.ErrOutOfBounds, size))
		default:
			cfg.Size = size
		}
	}
	if q.Has(keyWarningThreshold) {
		raw := strings.TrimSpace(q.Get(keyWarningThreshold))
		if raw == "" {
			cfg.WarningThreshold = nil
		} else if v, err := strconv.ParseFloat(raw, 64); err != nil {
			issues = append(issues, fmt.Errorf("%w: %s=%q", gauge.ErrInvalidNumber, keyWarningThreshold, raw))
		} else {
			cfg.WarningThreshold = &v
		}
	}
	if q.Has(keyWarningMessage) {
		cfg.WarningMessage = decodeText(q.Get(keyWarningMessage))
	}
	fullscreen = q.Get(keyFullscreen) == "true"
	return cfg, fullscreen, issues
}

// decodeText undoes an extra layer of percent-encoding that older share
// links carry for free-text keys.
func decodeText(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

// BuildQuery encodes the keys of cfg that differ from the defaults.
func BuildQuery(cfg gauge.Config, fullscreen bool) url.Values {
	def := gauge.DefaultConfig()
	q := url.Values{}
	if cfg.Value != def.Value {
		q.Set(keyValue, gauge.FormatValue(cfg.Value))
	}
	if cfg.Name != def.Name {
		q.Set(keyName, cfg.Name)
	}
	if cfg.Min != def.Min {
		q.Set(keyMin, gauge.FormatValue(cfg.Min))
	}
	if cfg.Max != def.Max {
		q.Set(keyMax, gauge.FormatValue(cfg.Max))
	}
	if cfg.Units != def.Units {
		q.Set(keyUnits, cfg.Units)
	}
	if cfg.Type != def.Type && cfg.Type != "" {
		q.Set(keyType, string(cfg.Type))
	}
	if cfg.Background != def.Background {
		q.Set(keyBackground, gauge.HexColor(cfg.Background))
	}
	if cfg.Size != def.Size && cfg.Size != 0 {
		q.Set(keySize, strconv.Itoa(cfg.Size))
	}
	if cfg.WarningThreshold != nil {
		q.Set(keyWarningThreshold, gauge.FormatValue(*cfg.WarningThreshold))
		if cfg.WarningMessage != "" {
			q.Set(keyWarningMessage, cfg.WarningMessage)
		}
	}
	if fullscreen {
		q.Set(keyFullscreen, "true")
	}
	return q
}

// ShareURL joins base and the non-default keys of cfg.
func ShareURL(base string, cfg gauge.Config, fullscreen bool) string {
	base = strings.TrimRight(base, "?")
	q := BuildQuery(cfg, fullscreen).Encode()
	if q == "" {
		return base
	}
	return base + "?" + q
}
