package config

import "time"

// Base application details
const AppName = "codeforge"
const ConfigDirName = "codeforge"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultSessionFileName = "session.json"
const DefaultLogFileName = "codeforge.log"

// UI Layout
const StatusBarHeight = 1
const MinimapWidth = 16

// Status Bar
const MessageTimeout = 4 * time.Second

// Editing defaults; validated copies live in NewDefaultConfig().
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const DefaultAutoSaveInterval = 30 * time.Second
const SystemClipboard = true
const MaxRecentFiles = 10
