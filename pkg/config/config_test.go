package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"charsheet/pkg/calibrate"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != "memory" || cfg.Viewport.Width != 800 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charsheet.toml")
	content := `
log_level = "debug"

[store]
driver = "sqlite"
path = "/tmp/overrides.db"

[viewport]
width = 640
height = 480

[tabs.sheet-tabs]
base_top = 12.0
step_top = 40.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHARSHEET_STORE_DRIVER", "file")
	t.Setenv("CHARSHEET_VIEWPORT_WIDTH", "1024")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != "file" {
		t.Errorf("driver = %q, want env override file", cfg.Store.Driver)
	}
	if cfg.Store.Path != "/tmp/overrides.db" {
		t.Errorf("path = %q", cfg.Store.Path)
	}
	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != 480 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("level = %v", cfg.Level())
	}
	want := calibrate.Model{BaseTop: 12, StepTop: 40}
	if got := cfg.Tabs["sheet-tabs"]; got != want {
		t.Errorf("tabs = %+v, want %+v", got, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charsheet.toml")
	if err := os.WriteFile(path, []byte("log_level = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("bad log level accepted")
	}
	if err := os.WriteFile(path, []byte("[viewport\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed toml accepted")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := Default()
	cfg.FontPath = "/fonts/sheet.ttf"
	if err := cfg.Write(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.FontPath != cfg.FontPath {
		t.Errorf("FontPath = %q", got.FontPath)
	}
}
