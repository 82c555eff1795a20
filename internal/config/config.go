// pattern: Functional Core

package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	SearchPaths    []string `json:"search_paths" yaml:"search_paths"`
	IgnorePatterns []string `json:"ignore_patterns" yaml:"ignore_patterns"`
	MaxDepth       int      `json:"max_depth" yaml:"max_depth"`
	ShowPreview    bool     `json:"show_preview" yaml:"show_preview"`
	ColorModified  string   `json:"color_modified" yaml:"color_modified"`
	ColorClean     string   `json:"color_clean" yaml:"color_clean"`
	Theme          string   `json:"theme" yaml:"theme"`
	LogLevel       string   `json:"log_level" yaml:"log_level"`
}

// DefaultIgnorePatterns are directories that are large, generated, or
// never hold projects of interest.
var DefaultIgnorePatterns = []string{
	".local",
	"go",
	".zen",
	"node_modules",
	"__pycache__",
	".cache",
	".fzf-tab",
	"yay",
	".mozilla",
	"Gentleman.Dots",
}

// Defaults returns the stock configuration for a user whose home is home.
func Defaults(home string) Config {
	return Config{
		SearchPaths:    []string{home},
		IgnorePatterns: append([]string(nil), DefaultIgnorePatterns...),
		MaxDepth:       10,
		ShowPreview:    true,
		ColorModified:  "red",
		ColorClean:     "white",
		Theme:          "mocha",
		LogLevel:       "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitfinder/config.json, falling back
// to ~/.config/gitfinder/config.json.
func DefaultPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gitfinder", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gitfinder", "config.json")
	}

	return filepath.Join(home, ".config", "gitfinder", "config.json")
}

// StateDir returns the directory for the log file: $XDG_STATE_HOME/gitfinder
// or ~/.local/state/gitfinder.
func StateDir() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "gitfinder")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "state", "gitfinder")
	}

	return filepath.Join(home, ".local", "state", "gitfinder")
}
