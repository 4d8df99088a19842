package gauge

import "strings"

// Preset is a named starting configuration offered by the control page and
// the number keys on the kiosk.
type Preset struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"value"`
	Units string  `json:"units"`
	Type  Type    `json:"type"`
}

var Presets = []Preset{
	{Key: "temperature", Name: "Temperature", Min: 0, Max: 100, Value: 25, Units: "°C", Type: Semicircle},
	{Key: "speed", Name: "Speed", Min: 0, Max: 200, Value: 80, Units: "km/h", Type: Speedometer},
	{Key: "pressure", Name: "Pressure", Min: 0, Max: 10, Value: 2.5, Units: "bar", Type: Angular},
	{Key: "battery", Name: "Battery", Min: 0, Max: 100, Value: 75, Units: "%", Type: Linear},
}

func PresetByKey(key string) (Preset, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply overwrites the preset fields of cfg. Size, background and warning
// settings are kept.
func (p Preset) Apply(cfg Config) Config {
	cfg.Name = p.Name
	cfg.Min = p.Min
	cfg.Max = p.Max
	cfg.Value = p.Value
	cfg.Units = p.Units
	cfg.Type = p.Type
	return cfg
}
