// Package config handles the global papers configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/papers/config.yml.
type GlobalConfig struct {
	ScanRoots  []string `yaml:"scan_roots,omitempty"`
	OutputDir  string   `yaml:"output_dir,omitempty"`
	PaperMax   int      `yaml:"paper_max,omitempty"`
	SkipParsed bool     `yaml:"skip_parsed,omitempty"`
	WriteMode  string   `yaml:"write_mode,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "papers"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/papers/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	for i, root := range cfg.ScanRoots {
		cfg.ScanRoots[i] = ExpandTilde(root)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = ExpandTilde(cfg.OutputDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetScanRoots returns the default scan roots from global config.
func GetScanRoots() []string {
	cfg, _ := LoadGlobalConfig()
	return cfg.ScanRoots
}

// GetOutputDir returns the configured output directory from global
// config. The PAPERS_OUTPUT_DIR environment variable takes precedence.
func GetOutputDir() string {
	if dir := os.Getenv("PAPERS_OUTPUT_DIR"); dir != "" {
		return ExpandTilde(dir)
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OutputDir
}

// ExpandTilde expands a leading ~/ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
