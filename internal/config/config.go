package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/philipparndt/goscene/internal/logging"
	"github.com/philipparndt/goscene/pkg/scene"
)

// EnvPrefix prefixes environment overrides, e.g. GOSCENE_WIDTH
const EnvPrefix = "GOSCENE"

// Config holds the settings shared by the CLI and the preview window
type Config struct {
	Width          float64       `mapstructure:"width"`
	Height         float64       `mapstructure:"height"`
	LogLevel       string        `mapstructure:"log_level"`
	WireframeColor string        `mapstructure:"wireframe_color"`
	Background     string        `mapstructure:"background"`
	FrameInterval  time.Duration `mapstructure:"frame_interval"`
	FPS            int           `mapstructure:"fps"`
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"width":           "width",
	"height":          "height",
	"log-level":       "log_level",
	"wireframe-color": "wireframe_color",
	"background":      "background",
	"frame-interval":  "frame_interval",
	"fps":             "fps",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("width", 800)
	v.SetDefault("height", 600)
	v.SetDefault("log_level", "info")
	v.SetDefault("wireframe_color", scene.DefaultWireframeColor.Hex())
	v.SetDefault("background", "#ffffff")
	v.SetDefault("frame_interval", time.Second/60)
	v.SetDefault("fps", 30)
}

// Load merges defaults, the config file, GOSCENE_* environment variables and
// flags, in increasing priority. Without a path, goscene.yaml is looked up in
// the working directory and the user config directory; a missing file is not
// an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("goscene")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "goscene"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Default returns the built-in settings
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate checks every field
func (c Config) Validate() error {
	if err := c.Viewport().Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.Wireframe(); err != nil {
		return fmt.Errorf("wireframe_color: %w", err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}

// TicksPerSecond returns the update rate for the frame interval, at least 1
func (c Config) TicksPerSecond() int {
	if c.FrameInterval <= 0 {
		return 1
	}
	return max(1, int(time.Second/c.FrameInterval))
}

// Viewport returns the configured drawing surface
func (c Config) Viewport() scene.Viewport {
	return scene.Viewport{Width: c.Width, Height: c.Height}
}

// Wireframe returns the wireframe stroke color
func (c Config) Wireframe() (scene.Color, error) {
	return scene.ParseColor(c.WireframeColor)
}

// BackgroundColor returns the background fill, nil for "none" or empty
func (c Config) BackgroundColor() (*scene.Color, error) {
	if c.Background == "" || strings.EqualFold(c.Background, "none") {
		return nil, nil
	}
	bg, err := scene.ParseColor(c.Background)
	if err != nil {
		return nil, err
	}
	return &bg, nil
}

// EngineOptions returns the engine options the config sets. The viewport is
// included only when withViewport is set, so a scene file's own size wins
// over the defaults.
func (c Config) EngineOptions(withViewport bool) ([]scene.Option, error) {
	wire, err := c.Wireframe()
	if err != nil {
		return nil, err
	}
	opts := []scene.Option{scene.WithWireframeColor(wire)}
	if withViewport {
		opts = append(opts, scene.WithViewport(c.Viewport()))
	}
	return opts, nil
}
