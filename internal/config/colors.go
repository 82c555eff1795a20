package config

import (
	"regexp"
	"strconv"
	"strings"

	catppuccin "github.com/catppuccin/go"
)

// FlavorFromName maps a theme name to its catppuccin flavor.
func FlavorFromName(name string) (catppuccin.Flavor, bool) {
	switch strings.ToLower(name) {
	case "latte":
		return catppuccin.Latte, true
	case "frappe":
		return catppuccin.Frappe, true
	case "macchiato":
		return catppuccin.Macchiato, true
	case "mocha":
		return catppuccin.Mocha, true
	default:
		return catppuccin.Mocha, false
	}
}

// Flavor returns the configured flavor, mocha when the theme is unknown.
func (c Config) Flavor() catppuccin.Flavor {
	f, _ := FlavorFromName(c.Theme)
	return f
}

var namedColors = map[string]func(catppuccin.Flavor) catppuccin.Color{
	"red":     catppuccin.Flavor.Red,
	"green":   catppuccin.Flavor.Green,
	"yellow":  catppuccin.Flavor.Yellow,
	"blue":    catppuccin.Flavor.Blue,
	"magenta": catppuccin.Flavor.Pink,
	"pink":    catppuccin.Flavor.Pink,
	"purple":  catppuccin.Flavor.Mauve,
	"cyan":    catppuccin.Flavor.Sky,
	"teal":    catppuccin.Flavor.Teal,
	"orange":  catppuccin.Flavor.Peach,
	"white":   catppuccin.Flavor.Text,
	"gray":    catppuccin.Flavor.Overlay1,
	"grey":    catppuccin.Flavor.Overlay1,
	"black":   catppuccin.Flavor.Crust,
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a color name, a hex color, or an ANSI
// palette index.
func ValidColor(s string) bool {
	_, ok := ResolveColor(s, catppuccin.Mocha)
	return ok
}

// ResolveColor turns a configured color into a lipgloss color string. Names
// resolve through flavor; hex values and ANSI indexes pass through.
func ResolveColor(s string, flavor catppuccin.Flavor) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if fn, ok := namedColors[s]; ok {
		return fn(flavor).Hex, true
	}
	if hexColor.MatchString(s) {
		return s, true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return s, true
	}
	return "", false
}
