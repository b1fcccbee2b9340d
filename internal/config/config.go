// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/darealtrueblue/codeforge/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Editor EditorConfig  `toml:"editor"` // Editor-specific settings
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth          int  `toml:"tab_width"`
	ScrollOff         int  `toml:"scroll_off"`
	AutoIndent        bool `toml:"auto_indent"`
	AutoCloseBrackets bool `toml:"auto_close_brackets"`
	SystemClipboard   bool `toml:"system_clipboard"`
	ShowMinimap       bool `toml:"show_minimap"`
	StatusBarHeight   int  `toml:"status_bar_height"`

	// AutoSaveInterval of 0 disables autosave.
	AutoSaveInterval time.Duration `toml:"auto_save_interval"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty means default path logic in logger.Init applies
		},
		Editor: EditorConfig{
			TabWidth:          DefaultTabWidth,
			ScrollOff:         DefaultScrollOff,
			AutoIndent:        true,
			AutoCloseBrackets: true,
			SystemClipboard:   SystemClipboard,
			ShowMinimap:       true,
			StatusBarHeight:   StatusBarHeight,
			AutoSaveInterval:  DefaultAutoSaveInterval,
		},
	}
}

// DefaultConfigPath returns the conventional config file location, or an
// empty string when the user config dir cannot be determined.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// DefaultSessionPath returns the conventional session file location, or an
// empty string when the user config dir cannot be determined.
func DefaultSessionPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultSessionFileName)
}

// loadFromFile attempts to load configuration from a TOML file. Decoding
// happens over a defaults-initialized struct so keys absent from the file
// keep their default values. A missing file is not an error; it returns
// (nil, nil) so callers keep their defaults untouched.
func loadFromFile(filePath string, verbose bool) (*Config, error) {
	cfg := NewDefaultConfig()
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	if verbose {
		logger.Debugf("Attempting to load configuration from: %s", filePath)
	}
	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if verbose {
		logger.Infof("Successfully loaded configuration from: %s", filePath)
	}
	return cfg, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.ScrollOff < 0 { // Allow 0
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Editor.AutoSaveInterval < 0 {
		c.Editor.AutoSaveInterval = defaults.Editor.AutoSaveInterval
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		// During initial load, avoid logging as logger isn't initialized yet
		verbose := false

		cfg := NewDefaultConfig() // Start with defaults

		// Determine effective config file path
		effectivePath := configFilePath
		if effectivePath == "" { // If flag not set, try default location
			effectivePath = DefaultConfigPath()
		}

		// Load from file if path is determined
		if effectivePath != "" {
			fileCfg, err := loadFromFile(effectivePath, verbose)
			if err != nil {
				// Store error to return later (can't log yet)
				loadErr = err
			} else if fileCfg != nil {
				cfg = fileCfg
			}
		}

		// Apply flag overrides (if flags were parsed)
		if flags != nil {
			flags.ApplyOverrides(cfg, verbose)
		}

		// Validate the final merged configuration (no logging during initial load)
		cfg.validate()

		loadedConfig = cfg // Store globally
	})

	return loadedConfig, loadErr
}

// Reload re-reads the config file and returns a fresh validated Config. It
// does not touch the global instance; callers decide what to apply.
func Reload(configFilePath string) (*Config, error) {
	cfg := NewDefaultConfig()
	fileCfg, err := loadFromFile(configFilePath, true)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		cfg = fileCfg
	}
	cfg.validate()
	return cfg, nil
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		// This indicates a programming error - LoadConfig should be called in main.
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
