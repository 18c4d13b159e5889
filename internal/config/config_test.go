package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-theft-auto/triptych"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Reader.CacheChapters < 1 {
		t.Errorf("cache_chapters = %d", cfg.Reader.CacheChapters)
	}

	style, err := cfg.Style()
	if err != nil {
		t.Fatalf("Style: %v", err)
	}
	if style != triptych.DefaultStyle() {
		t.Errorf("default config style differs from DefaultStyle: %+v", style)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
window:
  width: 1024
  title: "Night reading"
reader:
  font_scale: 2
theme:
  name: night
  accent: "#ff0000"
`
		if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		cfg := cm.Get()

		if cfg.Window.Width != 1024 || cfg.Window.Title != "Night reading" {
			t.Errorf("window = %+v", cfg.Window)
		}
		if cfg.Window.Height != DefaultConfig().Window.Height {
			t.Errorf("height = %d, want default", cfg.Window.Height)
		}
		if cm.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed = %q", cm.ConfigFileUsed())
		}

		style, err := cfg.Style()
		if err != nil {
			t.Fatalf("Style: %v", err)
		}
		if style.FontScale != 2 {
			t.Errorf("font scale = %v, want 2", style.FontScale)
		}
		if style.AccentColor != triptych.RGBA(255, 0, 0, 255) {
			t.Errorf("accent = %#x", style.AccentColor)
		}
		if style.PageColor != triptych.NightStyle().PageColor {
			t.Errorf("page colour should come from the night theme")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TRIPTYCH_WINDOW_WIDTH", "640")
		t.Setenv("TRIPTYCH_READER_CACHE_CHAPTERS", "3")

		if _, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("missing explicit config file should fail")
		}

		// No config.yaml in the working directory or home.
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())
		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		cfg := cm.Get()
		if cfg.Window.Width != 640 {
			t.Errorf("width = %d, want 640", cfg.Window.Width)
		}
		if cfg.Reader.CacheChapters != 3 {
			t.Errorf("cache_chapters = %d, want 3", cfg.Reader.CacheChapters)
		}
	})

	t.Run("rejects invalid colour", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configFile, []byte("theme:\n  page: \"#12\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewManager(configFile); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("error = %v, want ErrInvalidColor", err)
		}
	})
}

func TestReloadNotifiesCallbacks(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("reader:\n  margin: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cm, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	var got []*Config
	cm.OnChange(func(c *Config) { got = append(got, c) })

	if err := os.WriteFile(configFile, []byte("reader:\n  margin: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := cm.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	cm.reload(func(err error) { t.Errorf("reload: %v", err) })

	if len(got) != 1 || got[0].Reader.Margin != 20 {
		t.Fatalf("callbacks = %+v", got)
	}
	if cm.Get().Reader.Margin != 20 {
		t.Errorf("Get().Reader.Margin = %v", cm.Get().Reader.Margin)
	}

	// A broken edit keeps the previous config.
	if err := os.WriteFile(configFile, []byte("theme:\n  name: sepia\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := cm.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	var reloadErr error
	cm.reload(func(err error) { reloadErr = err })
	if reloadErr == nil {
		t.Error("expected reload error for unknown theme")
	}
	if cm.Get().Reader.Margin != 20 || len(got) != 1 {
		t.Error("failed reload replaced the config")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		err  bool
	}{
		{"#ffffff", triptych.ColorWhite, false},
		{"000000", triptych.ColorBlack, false},
		{"#10203040", triptych.RGBA(0x10, 0x20, 0x30, 0x40), false},
		{" #102030 ", triptych.RGBA(0x10, 0x20, 0x30, 0xFF), false},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("error = %v, want ErrInvalidColor", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager on written default: %v", err)
	}
	got, want := cm.Get(), DefaultConfig()
	if got.Window != want.Window || got.Reader != want.Reader || got.Theme != want.Theme {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestDragConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reader.FlingVelocity = 900
	if got := cfg.DragConfig().FlingVelocity; got != 900 {
		t.Errorf("fling velocity = %v, want 900", got)
	}
}
