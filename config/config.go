// Package config loads flowmosaic settings from flags, environment, an optional file and defaults.
package config

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
)

// EnvPrefix namespaces environment overrides, FLOWMOSAIC_ANIMATION_TILE_SIZE sets animation.tile_size
const EnvPrefix = "FLOWMOSAIC"

// Hosts
const (
	HostTerminal = "terminal"
	HostWindow   = "window"
	HostWeb      = "web"
	HostHeadless = "headless"
)

// Headless output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration
type Config struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
	LogDir   string `mapstructure:"log_dir" yaml:"log_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Background is the palette role shown behind the translucent tiles
	Background string `mapstructure:"background" yaml:"background"`

	Animation engine.Config  `mapstructure:"animation" yaml:"animation"`
	Noise     noise.Config   `mapstructure:"noise" yaml:"noise"`
	Terminal  TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Window    WindowConfig   `mapstructure:"window" yaml:"window"`
	Web       WebConfig      `mapstructure:"web" yaml:"web"`
	Headless  HeadlessConfig `mapstructure:"headless" yaml:"headless"`
}

// TerminalConfig overrides tile geometry for character cells, which are roughly twice as tall as wide
type TerminalConfig struct {
	TileSize  float64 `mapstructure:"tile_size" yaml:"tile_size"`
	TileRatio float64 `mapstructure:"tile_ratio" yaml:"tile_ratio"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// HeadlessConfig renders a fixed number of frames to files
// Every is the write interval in frames, 0 writes only the last frame
type HeadlessConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Frames int    `mapstructure:"frames" yaml:"frames"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
	Scale  int    `mapstructure:"scale" yaml:"scale"`
	Every  int    `mapstructure:"every" yaml:"every"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Host:       HostTerminal,
		LogDir:     "logs",
		LogLevel:   "debug",
		Background: render.RolePaper,
		Animation:  engine.DefaultConfig(),
		Noise:      noise.DefaultConfig(),
		Terminal: TerminalConfig{
			TileSize:  2,
			TileRatio: 0.5,
		},
		Window: WindowConfig{
			Width:  960,
			Height: 600,
			Title:  "flowmosaic",
		},
		Web: WebConfig{
			Addr: ":8080",
		},
		Headless: HeadlessConfig{
			Width:  800,
			Height: 400,
			Frames: 60,
			Format: FormatPNG,
			Output: "frames",
			Scale:  1,
		},
	}
}

// Engine returns the driver settings for the selected host
func (c Config) Engine() engine.Config {
	cfg := c.Animation
	if c.Host == HostTerminal {
		cfg.TileSize = c.Terminal.TileSize
		cfg.TileRatio = c.Terminal.TileRatio
	}
	return cfg
}

// BackgroundColor resolves the background role, paper when unknown
func (c Config) BackgroundColor() render.RGB {
	if rgb, ok := render.DefaultPalette.ByName(c.Background); ok {
		return rgb
	}
	return render.DefaultPalette.Paper
}

// Validate rejects settings the hosts cannot run with
func (c Config) Validate() error {
	switch c.Host {
	case HostTerminal, HostWindow, HostWeb, HostHeadless:
	default:
		return errors.Wrapf(ErrInvalid, "unknown host %q", c.Host)
	}

	positive := []struct {
		key string
		val float64
	}{
		{"animation.tile_size", c.Animation.TileSize},
		{"animation.tile_ratio", c.Animation.TileRatio},
		{"animation.frequency", c.Animation.Frequency},
		{"animation.frame_rate", float64(c.Animation.FrameRate)},
		{"terminal.tile_size", c.Terminal.TileSize},
		{"terminal.tile_ratio", c.Terminal.TileRatio},
		{"window.width", float64(c.Window.Width)},
		{"window.height", float64(c.Window.Height)},
		{"headless.width", float64(c.Headless.Width)},
		{"headless.height", float64(c.Headless.Height)},
		{"headless.frames", float64(c.Headless.Frames)},
		{"headless.scale", float64(c.Headless.Scale)},
	}
	for _, p := range positive {
		if !(p.val > 0) {
			return errors.Wrapf(ErrInvalid, "%s must be positive, got %v", p.key, p.val)
		}
	}
	if c.Headless.Every < 0 {
		return errors.Wrapf(ErrInvalid, "headless.every must not be negative, got %d", c.Headless.Every)
	}

	if _, ok := render.DefaultPalette.ByName(c.Background); !ok {
		return errors.Wrapf(ErrInvalid, "unknown background %q, expected one of %s",
			c.Background, strings.Join(render.DefaultPalette.Names(), ", "))
	}

	switch c.Headless.Format {
	case FormatPNG, FormatSVG:
	default:
		return errors.Wrapf(ErrInvalid, "unknown headless.format %q", c.Headless.Format)
	}

	if err := c.Noise.Validate(); err != nil {
		return errors.Wrapf(ErrInvalid, "noise: %v", err)
	}
	return nil
}

// Dump writes the configuration as YAML
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return enc.Close()
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"host":       "host",
	"debug":      "debug",
	"log-dir":    "log_dir",
	"log-level":  "log_level",
	"background": "background",
	"tile-size":  "animation.tile_size",
	"tile-ratio": "animation.tile_ratio",
	"frequency":  "animation.frequency",
	"frame-rate": "animation.frame_rate",
	"noise":      "noise.algorithm",
	"seed":       "noise.seed",
	"seed-mode":  "noise.seed_mode",
	"addr":       "web.addr",
	"width":      "headless.width",
	"height":     "headless.height",
	"frames":     "headless.frames",
	"format":     "headless.format",
	"output":     "headless.output",
	"scale":      "headless.scale",
	"every":      "headless.every",
}

// BindFlags registers the command line surface on fs
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("config", "c", "", "Config file (toml, yaml or json)")
	fs.Bool("print-config", false, "Print the effective configuration and exit")

	fs.String("host", d.Host, "Host: terminal, window, web, headless")
	fs.BoolP("debug", "d", d.Debug, "Write logs to the log directory")
	fs.String("log-dir", d.LogDir, "Log directory")
	fs.String("log-level", d.LogLevel, "Log level")
	fs.String("background", d.Background, "Palette role behind the tiles: "+strings.Join(render.DefaultPalette.Names(), ", "))

	fs.Float64("tile-size", d.Animation.TileSize, "Tile width in pixels")
	fs.Float64("tile-ratio", d.Animation.TileRatio, "Tile height as a fraction of tile width")
	fs.Float64("frequency", d.Animation.Frequency, "Field time scale, must be positive")
	fs.Int("frame-rate", d.Animation.FrameRate, "Frames per second")

	fs.String("noise", d.Noise.Algorithm, "Noise algorithm: simplex, opensimplex, perlin")
	fs.Int64("seed", d.Noise.Seed, "Noise seed")
	fs.String("seed-mode", d.Noise.SeedMode, "Seed mode: fixed, session")

	fs.String("addr", d.Web.Addr, "Web host listen address")

	fs.Int("width", d.Headless.Width, "Headless surface width")
	fs.Int("height", d.Headless.Height, "Headless surface height")
	fs.Int("frames", d.Headless.Frames, "Headless frame count")
	fs.String("format", d.Headless.Format, "Headless output format: png, svg")
	fs.String("output", d.Headless.Output, "Headless output directory")
	fs.Int("scale", d.Headless.Scale, "Headless PNG upscale factor")
	fs.Int("every", d.Headless.Every, "Write every Nth headless frame, 0 writes the last only")
}

// Load resolves flags > env > file > defaults, fs may be nil
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var path string
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("host", d.Host)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("background", d.Background)

	v.SetDefault("animation.tile_size", d.Animation.TileSize)
	v.SetDefault("animation.tile_ratio", d.Animation.TileRatio)
	v.SetDefault("animation.frequency", d.Animation.Frequency)
	v.SetDefault("animation.frame_rate", d.Animation.FrameRate)

	v.SetDefault("noise.algorithm", d.Noise.Algorithm)
	v.SetDefault("noise.seed", d.Noise.Seed)
	v.SetDefault("noise.seed_mode", d.Noise.SeedMode)

	v.SetDefault("terminal.tile_size", d.Terminal.TileSize)
	v.SetDefault("terminal.tile_ratio", d.Terminal.TileRatio)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)

	v.SetDefault("web.addr", d.Web.Addr)

	v.SetDefault("headless.width", d.Headless.Width)
	v.SetDefault("headless.height", d.Headless.Height)
	v.SetDefault("headless.frames", d.Headless.Frames)
	v.SetDefault("headless.format", d.Headless.Format)
	v.SetDefault("headless.output", d.Headless.Output)
	v.SetDefault("headless.scale", d.Headless.Scale)
	v.SetDefault("headless.every", d.Headless.Every)
}
