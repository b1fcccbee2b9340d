package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Editor.TabWidth != DefaultTabWidth {
		t.Errorf("TabWidth = %d, want %d", cfg.Editor.TabWidth, DefaultTabWidth)
	}
	if !cfg.Editor.AutoIndent {
		t.Error("AutoIndent should default to true")
	}
	if !cfg.Editor.AutoCloseBrackets {
		t.Error("AutoCloseBrackets should default to true")
	}
	if cfg.Editor.AutoSaveInterval != DefaultAutoSaveInterval {
		t.Errorf("AutoSaveInterval = %v, want %v", cfg.Editor.AutoSaveInterval, DefaultAutoSaveInterval)
	}
}

func TestReloadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[editor]
tab_width = 8
scroll_off = 0
auto_close_brackets = false
auto_save_interval = "1m"

[logger]
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Reload(path)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.ScrollOff != 0 {
		t.Errorf("ScrollOff = %d, want 0", cfg.Editor.ScrollOff)
	}
	if cfg.Editor.AutoCloseBrackets {
		t.Error("AutoCloseBrackets should be overridden to false")
	}
	if cfg.Editor.AutoSaveInterval != time.Minute {
		t.Errorf("AutoSaveInterval = %v, want 1m", cfg.Editor.AutoSaveInterval)
	}
	if cfg.Logger.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.Logger.LogLevel)
	}
	// Keys absent from the file keep their defaults.
	if !cfg.Editor.AutoIndent {
		t.Error("AutoIndent should keep its default when absent from file")
	}
}

func TestReloadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Reload(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cfg.Editor.TabWidth != DefaultTabWidth {
		t.Errorf("TabWidth = %d, want default %d", cfg.Editor.TabWidth, DefaultTabWidth)
	}
}

func TestValidateResetsInvalidValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Editor.TabWidth = -2
	cfg.Editor.ScrollOff = -1
	cfg.Logger.LogLevel = ""
	cfg.validate()

	if cfg.Editor.TabWidth != DefaultTabWidth {
		t.Errorf("TabWidth = %d, want default %d", cfg.Editor.TabWidth, DefaultTabWidth)
	}
	if cfg.Editor.ScrollOff != DefaultScrollOff {
		t.Errorf("ScrollOff = %d, want default %d", cfg.Editor.ScrollOff, DefaultScrollOff)
	}
	if cfg.Logger.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.Logger.LogLevel)
	}
}
