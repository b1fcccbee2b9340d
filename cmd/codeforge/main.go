// cmd/codeforge/main.go
package main

import (
	"fmt"
	stlog "log"
	"os"
	"path/filepath"

	"github.com/darealtrueblue/codeforge/internal/app"
	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/logger"
)

var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		os.Exit(0)
	}

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration Loading ---
	configPath := ""
	if flags.ConfigFilePath != nil {
		configPath = *flags.ConfigFilePath
	}
	cfg, err := config.LoadConfig(configPath, flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// --- Logger Initialization ---
	logOutput := os.Stderr
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		if configDir, dirErr := os.UserConfigDir(); dirErr == nil {
			logPath = filepath.Join(configDir, config.ConfigDirName, config.DefaultLogFileName)
		}
	}
	if logPath != "" && logPath != "-" {
		if mkErr := os.MkdirAll(filepath.Dir(logPath), 0o755); mkErr == nil {
			if f, openErr := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666); openErr == nil {
				defer f.Close()
				logOutput = f
			} else {
				stlog.Printf("Warning: failed to open log file '%s': %v", logPath, openErr)
			}
		}
	}
	logger.Init(cfg.Logger, logOutput)

	logger.Infof("Starting %s %s...", config.AppName, version)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	language := ""
	if flags.Language != nil {
		language = *flags.Language
	}
	readOnly := flags.ReadOnly != nil && *flags.ReadOnly

	// --- Create and Run App ---
	forgeApp, err := app.NewApp(cfg, configPath, filePath, language, readOnly)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := forgeApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
