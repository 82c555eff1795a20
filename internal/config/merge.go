// pattern: Functional Core

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gitfinder/internal/logging"
)

// Partial is a configuration file as written by the user. Nil fields were
// absent and take their default.
type Partial struct {
	SearchPaths    *[]string `json:"search_paths" yaml:"search_paths"`
	IgnorePatterns *[]string `json:"ignore_patterns" yaml:"ignore_patterns"`
	MaxDepth       *int      `json:"max_depth" yaml:"max_depth"`
	ShowPreview    *bool     `json:"show_preview" yaml:"show_preview"`
	ColorModified  *string   `json:"color_modified" yaml:"color_modified"`
	ColorClean     *string   `json:"color_clean" yaml:"color_clean"`
	Theme          *string   `json:"theme" yaml:"theme"`
	LogLevel       *string   `json:"log_level" yaml:"log_level"`
}

var knownKeys = []string{
	"search_paths",
	"ignore_patterns",
	"max_depth",
	"show_preview",
	"color_modified",
	"color_clean",
	"theme",
	"log_level",
}

// UnknownKeys returns the keys of raw that Config does not define, sorted.
func UnknownKeys(raw map[string]any) []string {
	var unknown []string
	for k := range raw {
		if !slices.Contains(knownKeys, k) {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// Merge overlays p on defaults. Values that fail validation are replaced by
// the default and described in the returned warnings. A leading "~" in
// search paths is expanded against home.
func Merge(defaults Config, p Partial, home string) (Config, []string) {
	cfg := defaults
	cfg.SearchPaths = slices.Clone(defaults.SearchPaths)
	cfg.IgnorePatterns = slices.Clone(defaults.IgnorePatterns)
	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if p.SearchPaths != nil {
		var paths []string
		for _, raw := range *p.SearchPaths {
			path := expandHome(strings.TrimSpace(raw), home)
			if path == "" || !filepath.IsAbs(path) {
				warnf("search path %q is not absolute; ignoring it", raw)
				continue
			}
			paths = append(paths, filepath.Clean(path))
		}
		if len(paths) == 0 {
			warnf("no usable search paths; using %v", defaults.SearchPaths)
		} else {
			cfg.SearchPaths = paths
		}
	}

	if p.IgnorePatterns != nil {
		patterns := make([]string, 0, len(*p.IgnorePatterns))
		for _, pattern := range *p.IgnorePatterns {
			if _, err := regexp.Compile(pattern); err != nil {
				warnf("ignore pattern %q is not a valid regular expression; ignoring it", pattern)
				continue
			}
			patterns = append(patterns, pattern)
		}
		cfg.IgnorePatterns = patterns
	}

	if p.MaxDepth != nil {
		if *p.MaxDepth < 0 {
			warnf("max_depth %d is negative; using %d", *p.MaxDepth, defaults.MaxDepth)
		} else {
			cfg.MaxDepth = *p.MaxDepth
		}
	}

	if p.ShowPreview != nil {
		cfg.ShowPreview = *p.ShowPreview
	}

	if p.ColorModified != nil {
		if ValidColor(*p.ColorModified) {
			cfg.ColorModified = strings.ToLower(*p.ColorModified)
		} else {
			warnf("color_modified %q is not a known color; using %q", *p.ColorModified, defaults.ColorModified)
		}
	}

	if p.ColorClean != nil {
		if ValidColor(*p.ColorClean) {
			cfg.ColorClean = strings.ToLower(*p.ColorClean)
		} else {
			warnf("color_clean %q is not a known color; using %q", *p.ColorClean, defaults.ColorClean)
		}
	}

	if p.Theme != nil {
		theme := strings.ToLower(*p.Theme)
		if _, ok := FlavorFromName(theme); ok {
			cfg.Theme = theme
		} else {
			warnf("theme %q is not a catppuccin flavor; using %q", *p.Theme, defaults.Theme)
		}
	}

	if p.LogLevel != nil {
		if logging.ValidLevel(*p.LogLevel) {
			cfg.LogLevel = strings.ToLower(*p.LogLevel)
		} else {
			warnf("log_level %q is not a level; using %q", *p.LogLevel, defaults.LogLevel)
		}
	}

	return cfg, warnings
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
