// Package config loads reader settings from defaults, a YAML file and
// TRIPTYCH_ environment variables, and reloads them when the file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-theft-auto/triptych"
)

// ErrInvalidColor is returned for theme colours that are not #RRGGBB or
// #RRGGBBAA.
var ErrInvalidColor = errors.New("invalid colour")

// Config is the full reader configuration.
type Config struct {
	Verbose bool         `mapstructure:"verbose" yaml:"verbose"`
	Window  WindowConfig `mapstructure:"window" yaml:"window"`
	Reader  ReaderConfig `mapstructure:"reader" yaml:"reader"`
	Theme   ThemeConfig  `mapstructure:"theme" yaml:"theme"`
}

// WindowConfig sizes the reader window.
type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
}

// ReaderConfig tunes text layout and paging.
type ReaderConfig struct {
	Margin        float64 `mapstructure:"margin" yaml:"margin"`
	FontScale     float64 `mapstructure:"font_scale" yaml:"font_scale"`
	LineSpacing   float64 `mapstructure:"line_spacing" yaml:"line_spacing"`
	SnapSpeed     float64 `mapstructure:"snap_speed" yaml:"snap_speed"`
	FlingVelocity float64 `mapstructure:"fling_velocity" yaml:"fling_velocity"`
	CacheChapters int     `mapstructure:"cache_chapters" yaml:"cache_chapters"`
}

// ThemeConfig picks a base style and overrides its colours. Empty colours
// keep the base style's.
type ThemeConfig struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Background string `mapstructure:"background" yaml:"background"`
	Page       string `mapstructure:"page" yaml:"page"`
	Text       string `mapstructure:"text" yaml:"text"`
	Accent     string `mapstructure:"accent" yaml:"accent"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	style := triptych.DefaultStyle()
	drag := triptych.DefaultDragConfig()
	return &Config{
		Window: WindowConfig{
			Width:  900,
			Height: 700,
			Title:  "triptych",
		},
		Reader: ReaderConfig{
			Margin:        float64(style.PageMargin),
			FontScale:     float64(style.FontScale),
			LineSpacing:   float64(style.LineSpacing),
			SnapSpeed:     triptych.DefaultSnapSpeed,
			FlingVelocity: float64(drag.FlingVelocity),
			CacheChapters: 8,
		},
		Theme: ThemeConfig{
			Name: "day",
		},
	}
}

// defaults returns every leaf key with its default so that environment
// overrides apply to each of them.
func defaults() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"verbose":               d.Verbose,
		"window.width":          d.Window.Width,
		"window.height":         d.Window.Height,
		"window.title":          d.Window.Title,
		"reader.margin":         d.Reader.Margin,
		"reader.font_scale":     d.Reader.FontScale,
		"reader.line_spacing":   d.Reader.LineSpacing,
		"reader.snap_speed":     d.Reader.SnapSpeed,
		"reader.fling_velocity": d.Reader.FlingVelocity,
		"reader.cache_chapters": d.Reader.CacheChapters,
		"theme.name":            d.Theme.Name,
		"theme.background":      d.Theme.Background,
		"theme.page":            d.Theme.Page,
		"theme.text":            d.Theme.Text,
		"theme.accent":          d.Theme.Accent,
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config.
// With an empty cfgFile, config.yaml is looked up in the working directory
// and in $HOME/.triptych; a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("TRIPTYCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.triptych")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config and validates it.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.Style(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes. Callbacks run on the
// watcher's goroutine.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. Invalid edits are
// reported to onError and leave the current config in place.
func (cm *Manager) WatchConfig(onError func(error)) {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload(onError)
	})
	cm.v.WatchConfig()
}

// reload re-reads viper state and notifies callbacks.
func (cm *Manager) reload(onError func(error)) {
	cfg, err := cm.load()
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Style builds the reader style from the theme and reader settings.
func (c *Config) Style() (triptych.Style, error) {
	var s triptych.Style
	switch c.Theme.Name {
	case "", "day":
		s = triptych.DefaultStyle()
	case "night":
		s = triptych.NightStyle()
	default:
		return s, fmt.Errorf("unknown theme %q (want day or night)", c.Theme.Name)
	}

	overrides := []struct {
		key   string
		value string
		dst   *uint32
	}{
		{"theme.background", c.Theme.Background, &s.BackgroundColor},
		{"theme.page", c.Theme.Page, &s.PageColor},
		{"theme.text", c.Theme.Text, &s.TextColor},
		{"theme.accent", c.Theme.Accent, &s.AccentColor},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		color, err := ParseColor(o.value)
		if err != nil {
			return s, fmt.Errorf("%s: %w", o.key, err)
		}
		*o.dst = color
	}

	if c.Reader.Margin >= 0 {
		s.PageMargin = float32(c.Reader.Margin)
	}
	if c.Reader.FontScale > 0 {
		s.FontScale = float32(c.Reader.FontScale)
	}
	if c.Reader.LineSpacing > 0 {
		s.LineSpacing = float32(c.Reader.LineSpacing)
	}
	return s, nil
}

// DragConfig returns the gesture settings.
func (c *Config) DragConfig() triptych.DragConfig {
	d := triptych.DefaultDragConfig()
	if c.Reader.FlingVelocity > 0 {
		d.FlingVelocity = float32(c.Reader.FlingVelocity)
	}
	return d
}

// ParseColor parses #RRGGBB or #RRGGBBAA into a packed colour.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		n = n<<8 | 0xFF
	}
	return triptych.RGBA(uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)), nil
}

// WriteDefault writes the default configuration to path, creating its
// directory.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	header := []byte(`# triptych reader configuration
# Every key can be overridden by an environment variable, e.g.
#   TRIPTYCH_READER_FONT_SCALE=2 TRIPTYCH_THEME_NAME=night
# theme colours are #RRGGBB or #RRGGBBAA; empty keeps the theme's colour.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
