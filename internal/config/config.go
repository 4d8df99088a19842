package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rook-computer/habdometer/internal/gauge"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "HABDOMETER"
	ConfigName = "habdometer"
)

type Config struct {
	Listen       string        `mapstructure:"listen"`
	Dev          bool          `mapstructure:"dev"`
	FPS          int           `mapstructure:"fps"`
	Smoothing    float64       `mapstructure:"smoothing"`
	Source       string        `mapstructure:"source"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Framebuffer  string        `mapstructure:"framebuffer"`
	CanvasWidth  int           `mapstructure:"canvas_width"`
	CanvasHeight int           `mapstructure:"canvas_height"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	// PublicURL is the base of share links. Empty means http://<local ip><listen>.
	PublicURL string `mapstructure:"public_url"`

	Gauge Gauge `mapstructure:"gauge"`
}

// Gauge is the [gauge] table: the initial target configuration.
type Gauge struct {
	Value            float64  `mapstructure:"value"`
	Min              float64  `mapstructure:"min"`
	Max              float64  `mapstructure:"max"`
	Name             string   `mapstructure:"name"`
	Units            string   `mapstructure:"units"`
	Type             string   `mapstructure:"type"`
	Size             int      `mapstructure:"size"`
	Background       string   `mapstructure:"bg"`
	WarningThreshold *float64 `mapstructure:"warning_threshold"`
	WarningMessage   string   `mapstructure:"warning_message"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("dev", false)
	v.SetDefault("fps", 30)
	v.SetDefault("smoothing", gauge.DefaultSmoothing)
	v.SetDefault("source", "static")
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("framebuffer", "/dev/fb0")
	v.SetDefault("canvas_width", 1280)
	v.SetDefault("canvas_height", 720)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("public_url", "")

	v.SetDefault("gauge.value", gauge.DefaultValue)
	v.SetDefault("gauge.min", gauge.DefaultMin)
	v.SetDefault("gauge.max", gauge.DefaultMax)
	v.SetDefault("gauge.name", gauge.DefaultName)
	v.SetDefault("gauge.units", gauge.DefaultUnits)
	v.SetDefault("gauge.type", string(gauge.DefaultType))
	v.SetDefault("gauge.size", gauge.DefaultSize)
	v.SetDefault("gauge.bg", gauge.DefaultBG)
	v.SetDefault("gauge.warning_message", "")
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"listen":        "listen",
	"dev":           "dev",
	"fps":           "fps",
	"smoothing":     "smoothing",
	"source":        "source",
	"poll-interval": "poll_interval",
	"framebuffer":   "framebuffer",
	"log-level":     "log_level",
	"log-file":      "log_file",
	"public-url":    "public_url",
	"type":          "gauge.type",
	"size":          "gauge.size",
}

// AddFlags registers the overridable settings on fs. Their defaults are
// informational; unset flags never override file or env values.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to habdometer.toml")
	fs.String("listen", ":8080", "HTTP listen address")
	fs.Bool("dev", false, "Enable permissive CORS for local development")
	fs.Int("fps", 30, "Kiosk frames per second")
	fs.Float64("smoothing", gauge.DefaultSmoothing, "Fraction of the remaining distance the needle covers per frame")
	fs.String("source", "static", "Live value source: static, cpu, mem, battery, sweep")
	fs.Duration("poll-interval", time.Second, "How often the live source is read")
	fs.String("framebuffer", "/dev/fb0", "Framebuffer device")
	fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	fs.String("log-file", "", "Redirect stdout and stderr to this file")
	fs.String("public-url", "", "Base URL used in share links")
	fs.String("type", string(gauge.DefaultType), "Initial gauge type")
	fs.Int("size", gauge.DefaultSize, "Initial gauge size in pixels")
}

// Load reads the config file, HABDOMETER_* environment variables and any
// changed flags in fs, in increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath("/etc/habdometer")
		v.AddConfigPath("$HOME/.config/habdometer")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gauge.warning_threshold"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be normalized at use.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS < 1 || c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps must be within 1..120 (got %d)", c.FPS))
	}
	if !(c.Smoothing > 0) || c.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("smoothing must be within (0, 1] (got %v)", c.Smoothing))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive (got %s)", c.PollInterval))
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas must be positive (got %dx%d)", c.CanvasWidth, c.CanvasHeight))
	}
	if _, err := gauge.ParseHexColor(c.Gauge.Background); err != nil {
		errs = append(errs, fmt.Errorf("gauge.bg: %w", err))
	}
	return errors.Join(errs...)
}

// FrameInterval is the render loop period for FPS.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

// GaugeConfig converts the [gauge] table. The result is normalized; the
// returned issues describe what was corrected.
func (c *Config) GaugeConfig() (gauge.Config, gauge.Issues) {
	bg, err := gauge.ParseHexColor(c.Gauge.Background)
	if err != nil {
		bg, _ = gauge.ParseHexColor(gauge.DefaultBG)
	}
	g := gauge.Config{
		Value:            c.Gauge.Value,
		Min:              c.Gauge.Min,
		Max:              c.Gauge.Max,
		Name:             c.Gauge.Name,
		Units:            c.Gauge.Units,
		Type:             gauge.Type(c.Gauge.Type),
		Size:             c.Gauge.Size,
		Background:       bg,
		WarningThreshold: c.Gauge.WarningThreshold,
		WarningMessage:   c.Gauge.WarningMessage,
	}
	return gauge.Normalize(g)
}
